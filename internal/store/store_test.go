package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/fleetgrid/orgctx/internal/mocks"
	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/fleetgrid/orgctx/internal/orgapi"
	"github.com/fleetgrid/orgctx/internal/persist"
	"github.com/fleetgrid/orgctx/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func membership(orgID int64, role model.Role, orgActive, memberActive bool) model.Membership {
	return model.Membership{
		ID:             orgID,
		OrganizationID: orgID,
		Role:           role,
		IsActive:       memberActive,
		Organization: model.Organization{
			ID:       orgID,
			Name:     "Org",
			Slug:     "org",
			IsActive: orgActive,
		},
	}
}

func TestSetCurrentOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockOrganizationAPI(ctrl)
	vault := persist.NewMemoryVault()
	s := store.New(context.Background(), api, vault)

	org := model.Organization{ID: 7, Name: "Acme Fleet", Slug: "acme-fleet", IsActive: true}
	s.SetCurrentOrganization(context.Background(), org, model.RoleManager)

	snap := s.Snapshot()
	require.NotNil(t, snap.CurrentOrganization)
	assert.Equal(t, int64(7), snap.CurrentOrganization.ID)
	assert.Equal(t, model.RoleManager, snap.CurrentRole)
	assert.Empty(t, snap.Error)

	// The durable slice holds exactly the selected organization and role.
	raw, err := vault.Get(context.Background(), "organization-storage")
	require.NoError(t, err)
	var cp struct {
		CurrentOrganization *model.Organization `json:"current_organization"`
		CurrentRole         model.Role          `json:"current_role"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &cp))
	require.NotNil(t, cp.CurrentOrganization)
	assert.Equal(t, int64(7), cp.CurrentOrganization.ID)
	assert.Equal(t, model.RoleManager, cp.CurrentRole)
}

func TestRoleAndOrganizationArePaired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockOrganizationAPI(ctrl)
	s := store.New(context.Background(), api, persist.NewMemoryVault())

	// Unselected: neither is set.
	snap := s.Snapshot()
	assert.Nil(t, snap.CurrentOrganization)
	assert.Empty(t, snap.CurrentRole)

	// Selected: both are set.
	s.SetCurrentOrganization(context.Background(), model.Organization{ID: 1, IsActive: true}, model.RoleOwner)
	snap = s.Snapshot()
	assert.NotNil(t, snap.CurrentOrganization)
	assert.NotEmpty(t, snap.CurrentRole)

	// Cleared: neither again.
	s.ClearOrganization(context.Background())
	snap = s.Snapshot()
	assert.Nil(t, snap.CurrentOrganization)
	assert.Empty(t, snap.CurrentRole)
}

func TestLoadOrganizations(t *testing.T) {
	t.Run("adopts first eligible membership when nothing is selected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := store.New(context.Background(), api, persist.NewMemoryVault())

		memberships := []model.Membership{
			membership(1, model.RoleAdmin, true, true),
			membership(2, model.RoleViewer, true, true),
		}
		api.EXPECT().GetAll(gomock.Any()).Return(memberships, nil)

		require.NoError(t, s.LoadOrganizations(context.Background()))

		snap := s.Snapshot()
		require.NotNil(t, snap.CurrentOrganization)
		assert.Equal(t, int64(1), snap.CurrentOrganization.ID)
		assert.Equal(t, model.RoleAdmin, snap.CurrentRole)
		assert.Len(t, snap.Organizations, 2)
		assert.False(t, snap.IsLoading)
		assert.Empty(t, snap.Error)
	})

	t.Run("skips inactive organizations and inactive memberships", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := store.New(context.Background(), api, persist.NewMemoryVault())

		memberships := []model.Membership{
			membership(1, model.RoleAdmin, false, true), // organization inactive
			membership(2, model.RoleAdmin, true, false), // membership inactive
			membership(3, model.RoleViewer, true, true),
		}
		api.EXPECT().GetAll(gomock.Any()).Return(memberships, nil)

		require.NoError(t, s.LoadOrganizations(context.Background()))

		snap := s.Snapshot()
		require.NotNil(t, snap.CurrentOrganization)
		assert.Equal(t, int64(3), snap.CurrentOrganization.ID)
		assert.Equal(t, model.RoleViewer, snap.CurrentRole)
	})

	t.Run("leaves context unset when no membership is eligible", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := store.New(context.Background(), api, persist.NewMemoryVault())

		memberships := []model.Membership{
			membership(1, model.RoleAdmin, false, true),
		}
		api.EXPECT().GetAll(gomock.Any()).Return(memberships, nil)

		require.NoError(t, s.LoadOrganizations(context.Background()))

		snap := s.Snapshot()
		assert.Nil(t, snap.CurrentOrganization)
		assert.Empty(t, snap.CurrentRole)
		assert.Len(t, snap.Organizations, 1)
	})

	t.Run("keeps an existing selection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := store.New(context.Background(), api, persist.NewMemoryVault())

		s.SetCurrentOrganization(context.Background(), model.Organization{ID: 9, IsActive: true}, model.RoleOwner)

		api.EXPECT().GetAll(gomock.Any()).Return([]model.Membership{
			membership(1, model.RoleAdmin, true, true),
		}, nil)

		require.NoError(t, s.LoadOrganizations(context.Background()))

		snap := s.Snapshot()
		require.NotNil(t, snap.CurrentOrganization)
		assert.Equal(t, int64(9), snap.CurrentOrganization.ID)
	})

	t.Run("failure is recorded, never returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := store.New(context.Background(), api, persist.NewMemoryVault())

		s.SetCurrentOrganization(context.Background(), model.Organization{ID: 9, IsActive: true}, model.RoleOwner)
		api.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("Failed to load"))

		err := s.LoadOrganizations(context.Background())
		assert.NoError(t, err)

		snap := s.Snapshot()
		assert.Equal(t, "Failed to load", snap.Error)
		assert.False(t, snap.IsLoading)
		// The previous selection and list survive a failed load.
		require.NotNil(t, snap.CurrentOrganization)
		assert.Equal(t, int64(9), snap.CurrentOrganization.ID)
	})
}

func TestSwitchOrganization(t *testing.T) {
	seed := func(t *testing.T, api *mocks.MockOrganizationAPI, vault *persist.MemoryVault, memberships []model.Membership) *store.ContextStore {
		t.Helper()
		s := store.New(context.Background(), api, vault)
		api.EXPECT().GetAll(gomock.Any()).Return(memberships, nil)
		require.NoError(t, s.LoadOrganizations(context.Background()))
		return s
	}

	t.Run("successful switch adopts membership and persists token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		vault := persist.NewMemoryVault()
		s := seed(t, api, vault, []model.Membership{
			membership(1, model.RoleAdmin, true, true),
			membership(2, model.RoleViewer, true, true),
		})

		api.EXPECT().Switch(gomock.Any(), int64(2)).Return(&orgapi.SwitchResult{AccessToken: "new-token"}, nil)

		require.NoError(t, s.SwitchOrganization(context.Background(), 2))

		snap := s.Snapshot()
		require.NotNil(t, snap.CurrentOrganization)
		assert.Equal(t, int64(2), snap.CurrentOrganization.ID)
		assert.Equal(t, model.RoleViewer, snap.CurrentRole)
		assert.False(t, snap.IsSwitching)
		assert.Empty(t, snap.Error)

		token, err := vault.Get(context.Background(), "token")
		require.NoError(t, err)
		assert.Equal(t, "new-token", token)
	})

	t.Run("unknown organization is rejected without a directory call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := seed(t, api, persist.NewMemoryVault(), []model.Membership{
			membership(1, model.RoleAdmin, true, true),
		})

		err := s.SwitchOrganization(context.Background(), 999)
		assert.ErrorIs(t, err, domain.ErrMembershipNotFound)

		snap := s.Snapshot()
		assert.Equal(t, "Organization not found in your memberships", snap.Error)
		assert.False(t, snap.IsSwitching)
		require.NotNil(t, snap.CurrentOrganization)
		assert.Equal(t, int64(1), snap.CurrentOrganization.ID)
	})

	t.Run("inactive organization is rejected without a directory call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := seed(t, api, persist.NewMemoryVault(), []model.Membership{
			membership(1, model.RoleAdmin, true, true),
			membership(3, model.RoleViewer, false, true),
		})

		err := s.SwitchOrganization(context.Background(), 3)
		assert.ErrorIs(t, err, domain.ErrOrganizationInactive)
		assert.Equal(t, "Organization is inactive", s.Err())
	})

	t.Run("inactive membership in an active organization passes the precondition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := seed(t, api, persist.NewMemoryVault(), []model.Membership{
			membership(1, model.RoleAdmin, true, true),
			membership(4, model.RoleViewer, true, false),
		})

		// The directory is the authority on the membership's own flag.
		api.EXPECT().Switch(gomock.Any(), int64(4)).Return(nil, errors.New("membership is inactive"))

		err := s.SwitchOrganization(context.Background(), 4)
		assert.Error(t, err)
		assert.Equal(t, "membership is inactive", s.Err())
	})

	t.Run("directory failure is recorded and returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		vault := persist.NewMemoryVault()
		s := seed(t, api, vault, []model.Membership{
			membership(1, model.RoleAdmin, true, true),
			membership(2, model.RoleViewer, true, true),
		})

		api.EXPECT().Switch(gomock.Any(), int64(2)).Return(nil, errors.New("Network error"))

		err := s.SwitchOrganization(context.Background(), 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Network error")

		snap := s.Snapshot()
		assert.Equal(t, "Network error", snap.Error)
		assert.False(t, snap.IsSwitching)
		require.NotNil(t, snap.CurrentOrganization)
		assert.Equal(t, int64(1), snap.CurrentOrganization.ID)

		_, vaultErr := vault.Get(context.Background(), "token")
		assert.ErrorIs(t, vaultErr, domain.ErrNotFound)
	})

	t.Run("second switch while one is in flight is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := seed(t, api, persist.NewMemoryVault(), []model.Membership{
			membership(1, model.RoleAdmin, true, true),
			membership(2, model.RoleViewer, true, true),
		})

		entered := make(chan struct{})
		release := make(chan struct{})
		api.EXPECT().Switch(gomock.Any(), int64(2)).DoAndReturn(
			func(ctx context.Context, organizationID int64) (*orgapi.SwitchResult, error) {
				close(entered)
				<-release
				return &orgapi.SwitchResult{AccessToken: "t"}, nil
			})

		done := make(chan error, 1)
		go func() {
			done <- s.SwitchOrganization(context.Background(), 2)
		}()

		<-entered
		err := s.SwitchOrganization(context.Background(), 1)
		assert.ErrorIs(t, err, domain.ErrSwitchInFlight)
		assert.True(t, s.Snapshot().IsSwitching)

		close(release)
		require.NoError(t, <-done)
		assert.False(t, s.Snapshot().IsSwitching)
	})
}

func TestClearOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockOrganizationAPI(ctrl)
	vault := persist.NewMemoryVault()
	s := store.New(context.Background(), api, vault)

	api.EXPECT().GetAll(gomock.Any()).Return([]model.Membership{
		membership(1, model.RoleAdmin, true, true),
		membership(2, model.RoleViewer, true, true),
	}, nil)
	require.NoError(t, s.LoadOrganizations(context.Background()))

	api.EXPECT().Switch(gomock.Any(), int64(2)).Return(&orgapi.SwitchResult{AccessToken: "tok"}, nil)
	require.NoError(t, s.SwitchOrganization(context.Background(), 2))

	s.ClearOrganization(context.Background())

	snap := s.Snapshot()
	assert.Nil(t, snap.CurrentOrganization)
	assert.Empty(t, snap.CurrentRole)
	assert.Empty(t, snap.Organizations)
	assert.Empty(t, snap.Error)

	// Removing the persisted token on logout is the auth layer's job.
	token, err := vault.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestHasPermission(t *testing.T) {
	newStore := func(t *testing.T, role model.Role, perms model.PermissionMap) *store.ContextStore {
		t.Helper()
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := store.New(context.Background(), api, persist.NewMemoryVault())

		m := membership(1, role, true, true)
		m.Permissions = perms
		api.EXPECT().GetAll(gomock.Any()).Return([]model.Membership{m}, nil)
		require.NoError(t, s.LoadOrganizations(context.Background()))
		return s
	}

	t.Run("owner and admin bypass the permission map", func(t *testing.T) {
		for _, role := range []model.Role{model.RoleOwner, model.RoleAdmin} {
			s := newStore(t, role, model.PermissionMap{"can_manage_users": false})
			assert.True(t, s.HasPermission("can_manage_users"))
			assert.True(t, s.HasPermission("anything_at_all"))
			assert.True(t, s.IsOwnerOrAdmin())
		}
	})

	t.Run("lower roles consult the membership's permission map", func(t *testing.T) {
		s := newStore(t, model.RoleViewer, model.PermissionMap{
			"can_view_reports": true,
			"can_manage_users": false,
		})

		assert.True(t, s.HasPermission("can_view_reports"))
		assert.False(t, s.HasPermission("can_manage_users"))
		assert.False(t, s.HasPermission("can_export_payroll"))
		assert.False(t, s.IsOwnerOrAdmin())

		// Query methods are stable without intervening mutators.
		for i := 0; i < 3; i++ {
			assert.True(t, s.HasPermission("can_view_reports"))
			assert.False(t, s.IsOwnerOrAdmin())
		}
	})

	t.Run("no selection means no permissions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		api := mocks.NewMockOrganizationAPI(ctrl)
		s := store.New(context.Background(), api, persist.NewMemoryVault())

		assert.False(t, s.HasPermission("can_view_reports"))
		assert.False(t, s.IsOwnerOrAdmin())
	})
}

func TestSelectors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockOrganizationAPI(ctrl)
	s := store.New(context.Background(), api, persist.NewMemoryVault())

	_, ok := s.CurrentOrganizationID()
	assert.False(t, ok)
	assert.False(t, s.RequireRole(model.RoleOwner, model.RoleAdmin))

	s.SetCurrentOrganization(context.Background(), model.Organization{ID: 42, IsActive: true}, model.RoleManager)

	id, ok := s.CurrentOrganizationID()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.True(t, s.RequireRole(model.RoleManager, model.RoleViewer))
	assert.False(t, s.RequireRole(model.RoleOwner, model.RoleAdmin))
}

func TestRehydrate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockOrganizationAPI(ctrl)
	vault := persist.NewMemoryVault()

	first := store.New(context.Background(), api, vault)
	first.SetCurrentOrganization(context.Background(), model.Organization{ID: 5, Name: "Acme", Slug: "acme", IsActive: true}, model.RoleAdmin)

	// A fresh store over the same vault resumes the same tenant, but the
	// membership list must be reloaded.
	second := store.New(context.Background(), api, vault)
	snap := second.Snapshot()
	require.NotNil(t, snap.CurrentOrganization)
	assert.Equal(t, int64(5), snap.CurrentOrganization.ID)
	assert.Equal(t, model.RoleAdmin, snap.CurrentRole)
	assert.Empty(t, snap.Organizations)
}

func TestRehydrateCorruptCheckpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockOrganizationAPI(ctrl)
	vault := persist.NewMemoryVault()
	require.NoError(t, vault.Set(context.Background(), "organization-storage", "{not json"))

	s := store.New(context.Background(), api, vault)
	snap := s.Snapshot()
	assert.Nil(t, snap.CurrentOrganization)
	assert.Empty(t, snap.CurrentRole)
}
