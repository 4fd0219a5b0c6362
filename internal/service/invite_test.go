package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/fleetgrid/orgctx/internal/config"
	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/fleetgrid/orgctx/internal/mocks"
	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/fleetgrid/orgctx/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newInviteService(ctrl *gomock.Controller) (*service.InviteService, *mocks.MockInviteRepositoryIface, *mocks.MockMembershipRepositoryIface, *mocks.MockOrganizationRepositoryIface) {
	inviteRepo := mocks.NewMockInviteRepositoryIface(ctrl)
	membershipRepo := mocks.NewMockMembershipRepositoryIface(ctrl)
	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
	cfg := &config.Config{
		InviteTTL: 7 * 24 * time.Hour,
		BaseURL:   "http://localhost:8080",
	}
	svc := service.NewInviteService(inviteRepo, membershipRepo, orgRepo, nil, cfg)
	return svc, inviteRepo, membershipRepo, orgRepo
}

func TestCreateInvite(t *testing.T) {
	inviter := uuid.New()

	t.Run("creates a pending invite", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, inviteRepo, _, orgRepo := newInviteService(ctrl)

		orgRepo.EXPECT().FindByID(gomock.Any(), int64(1)).
			Return(&model.Organization{ID: 1, Name: "Acme", IsActive: true}, nil)
		inviteRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		invite, err := svc.Create(context.Background(), service.CreateInviteInput{
			OrganizationID: 1,
			Email:          "new@example.com",
			Role:           model.RoleViewer,
			InvitedByID:    inviter,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), invite.OrganizationID)
		assert.Equal(t, model.RoleViewer, invite.Role)
		assert.NotEmpty(t, invite.Token)
		assert.True(t, invite.ExpiresAt.After(time.Now()))
		assert.Nil(t, invite.AcceptedAt)
	})

	t.Run("rejects the owner role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, _, _ := newInviteService(ctrl)

		_, err := svc.Create(context.Background(), service.CreateInviteInput{
			OrganizationID: 1,
			Email:          "new@example.com",
			Role:           model.RoleOwner,
			InvitedByID:    inviter,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects an inactive organization", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, _, orgRepo := newInviteService(ctrl)

		orgRepo.EXPECT().FindByID(gomock.Any(), int64(1)).
			Return(&model.Organization{ID: 1, IsActive: false}, nil)

		_, err := svc.Create(context.Background(), service.CreateInviteInput{
			OrganizationID: 1,
			Email:          "new@example.com",
			Role:           model.RoleViewer,
			InvitedByID:    inviter,
		})
		assert.ErrorIs(t, err, domain.ErrOrganizationInactive)
	})
}

func TestAcceptInvite(t *testing.T) {
	accepter := uuid.New()

	t.Run("creates a membership and marks the invite accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, inviteRepo, membershipRepo, _ := newInviteService(ctrl)

		invite := &model.Invite{
			ID:             uuid.New(),
			OrganizationID: 5,
			Email:          "new@example.com",
			Role:           model.RoleManager,
			Token:          "tok",
			ExpiresAt:      time.Now().Add(time.Hour),
			Organization:   model.Organization{ID: 5, Name: "Acme", IsActive: true},
		}

		gomock.InOrder(
			inviteRepo.EXPECT().FindByToken(gomock.Any(), "tok").Return(invite, nil),
			membershipRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, m *model.Membership) error {
					assert.Equal(t, int64(5), m.OrganizationID)
					assert.Equal(t, accepter, m.UserID)
					assert.Equal(t, model.RoleManager, m.Role)
					assert.True(t, m.IsActive)
					assert.NotNil(t, m.Permissions)
					return nil
				}),
			inviteRepo.EXPECT().Update(gomock.Any(), invite).Return(nil),
		)

		membership, err := svc.Accept(context.Background(), service.AcceptInviteInput{
			Token:  "tok",
			UserID: accepter,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), membership.Organization.ID)
		assert.NotNil(t, invite.AcceptedAt)
	})

	t.Run("rejects an expired invite", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, inviteRepo, _, _ := newInviteService(ctrl)

		inviteRepo.EXPECT().FindByToken(gomock.Any(), "tok").Return(&model.Invite{
			Token:     "tok",
			ExpiresAt: time.Now().Add(-time.Hour),
		}, nil)

		_, err := svc.Accept(context.Background(), service.AcceptInviteInput{Token: "tok", UserID: accepter})
		assert.ErrorIs(t, err, domain.ErrInviteExpired)
	})

	t.Run("rejects an already accepted invite", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, inviteRepo, _, _ := newInviteService(ctrl)

		accepted := time.Now().Add(-time.Minute)
		inviteRepo.EXPECT().FindByToken(gomock.Any(), "tok").Return(&model.Invite{
			Token:      "tok",
			ExpiresAt:  time.Now().Add(time.Hour),
			AcceptedAt: &accepted,
		}, nil)

		_, err := svc.Accept(context.Background(), service.AcceptInviteInput{Token: "tok", UserID: accepter})
		assert.ErrorIs(t, err, domain.ErrInviteAlreadyAccepted)
	})

	t.Run("propagates an existing membership", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, inviteRepo, membershipRepo, _ := newInviteService(ctrl)

		inviteRepo.EXPECT().FindByToken(gomock.Any(), "tok").Return(&model.Invite{
			OrganizationID: 5,
			Token:          "tok",
			Role:           model.RoleViewer,
			ExpiresAt:      time.Now().Add(time.Hour),
		}, nil)
		membershipRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrMembershipExists)

		_, err := svc.Accept(context.Background(), service.AcceptInviteInput{Token: "tok", UserID: accepter})
		assert.ErrorIs(t, err, domain.ErrMembershipExists)
	})
}
