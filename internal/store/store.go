// internal/store/store.go

// Package store holds the per-session organization context: which tenant the
// session currently operates under, the user's full membership list, and the
// transient flags of the two directory-calling operations.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/fleetgrid/orgctx/internal/orgapi"
	"github.com/fleetgrid/orgctx/internal/persist"
)

// Vault keys. The checkpoint slice holds only the current organization and
// role; the membership list, error, and busy flags are session-lifetime state
// repopulated by LoadOrganizations.
const (
	checkpointKey = "organization-storage"
	tokenKey      = "token"
)

// Recorded error messages. The sentinel errors in internal/domain are for
// callers; these exact strings are what the error field exposes to UIs.
const (
	msgLoadFailed           = "Failed to load organizations"
	msgSwitchFailed         = "Failed to switch organization"
	msgMembershipNotFound   = "Organization not found in your memberships"
	msgOrganizationInactive = "Organization is inactive"
)

// ContextStore is the single source of truth for the session's tenant scope.
// One instance exists per session; all methods are safe for concurrent use,
// and the two directory-calling operations reject a second invocation while
// one is in flight.
type ContextStore struct {
	api   orgapi.OrganizationAPI
	vault persist.Vault

	mu          sync.Mutex
	current     *model.Organization
	role        model.Role
	memberships []model.Membership
	isLoading   bool
	isSwitching bool
	lastErr     string
}

// Snapshot is a point-in-time copy of the store's state, safe to serialize.
type Snapshot struct {
	CurrentOrganization *model.Organization `json:"current_organization"`
	CurrentRole         model.Role          `json:"current_role,omitempty"`
	Organizations       []model.Membership  `json:"organizations"`
	IsLoading           bool                `json:"is_loading"`
	IsSwitching         bool                `json:"is_switching"`
	Error               string              `json:"error,omitempty"`
}

// checkpoint is the durable slice written to the vault after each successful
// state-changing operation.
type checkpoint struct {
	CurrentOrganization *model.Organization `json:"current_organization"`
	CurrentRole         model.Role          `json:"current_role,omitempty"`
}

// New builds a session store and rehydrates the checkpoint slice from the
// vault. A missing or unreadable checkpoint yields an unselected context.
func New(ctx context.Context, api orgapi.OrganizationAPI, vault persist.Vault) *ContextStore {
	s := &ContextStore{api: api, vault: vault}

	raw, err := vault.Get(ctx, checkpointKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("reading organization checkpoint", "error", err)
		}
		return s
	}

	var cp checkpoint
	if err := json.Unmarshal([]byte(raw), &cp); err != nil {
		slog.Warn("discarding corrupt organization checkpoint", "error", err)
		return s
	}

	s.current = cp.CurrentOrganization
	if s.current != nil {
		s.role = cp.CurrentRole
	}
	return s
}

// SetCurrentOrganization unconditionally adopts org under role and clears the
// error field. It does not validate against the membership list; it is the
// entry point for the post-login hand-off, before memberships are loaded.
func (s *ContextStore) SetCurrentOrganization(ctx context.Context, org model.Organization, role model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &org
	s.role = role
	s.lastErr = ""
	s.checkpointLocked(ctx)
}

// LoadOrganizations fetches the membership list from the directory and, when
// no organization is selected yet, adopts the first membership whose
// organization and membership are both active.
//
// Directory failures are swallowed into the error field, never returned;
// callers observe them through Snapshot or Err. The only error returned is
// ErrLoadInFlight, when a load is already running.
func (s *ContextStore) LoadOrganizations(ctx context.Context) error {
	s.mu.Lock()
	if s.isLoading {
		s.mu.Unlock()
		return domain.ErrLoadInFlight
	}
	s.isLoading = true
	s.lastErr = ""
	s.mu.Unlock()

	memberships, err := s.api.GetAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false

	if err != nil {
		s.lastErr = failureMessage(err, msgLoadFailed)
		return nil
	}

	s.memberships = memberships

	if s.current == nil {
		for i := range memberships {
			m := memberships[i]
			if m.IsActive && m.Organization.IsActive {
				org := m.Organization
				s.current = &org
				s.role = m.Role
				s.checkpointLocked(ctx)
				break
			}
		}
	}

	return nil
}

// SwitchOrganization changes the active tenant to organizationID, which must
// identify one of the loaded memberships. Precondition failures (membership
// not found, organization inactive) are recorded in the error field and
// returned as sentinel errors without calling the directory; the membership's
// own active flag is deliberately not checked here, the directory enforces it
// when issuing the token. On success the re-scoped access token is persisted
// under the vault key "token" before the context is adopted.
func (s *ContextStore) SwitchOrganization(ctx context.Context, organizationID int64) error {
	s.mu.Lock()
	if s.isSwitching {
		s.mu.Unlock()
		return domain.ErrSwitchInFlight
	}

	var matched *model.Membership
	for i := range s.memberships {
		if s.memberships[i].OrganizationID == organizationID {
			matched = &s.memberships[i]
			break
		}
	}
	if matched == nil {
		s.lastErr = msgMembershipNotFound
		s.mu.Unlock()
		return domain.ErrMembershipNotFound
	}
	if !matched.Organization.IsActive {
		s.lastErr = msgOrganizationInactive
		s.mu.Unlock()
		return domain.ErrOrganizationInactive
	}

	// Copy before releasing the lock; the list may be replaced by a
	// concurrent load while the switch call is outstanding.
	membership := *matched
	s.isSwitching = true
	s.lastErr = ""
	s.mu.Unlock()

	result, err := s.api.Switch(ctx, organizationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isSwitching = false

	if err != nil {
		s.lastErr = failureMessage(err, msgSwitchFailed)
		return fmt.Errorf("switching organization: %w", err)
	}

	if err := s.vault.Set(ctx, tokenKey, result.AccessToken); err != nil {
		s.lastErr = failureMessage(err, msgSwitchFailed)
		return fmt.Errorf("persisting access token: %w", err)
	}

	org := membership.Organization
	s.current = &org
	s.role = membership.Role
	s.checkpointLocked(ctx)

	return nil
}

// ClearOrganization resets the selected context, the membership list, and the
// error field. The busy flags are left alone, as is the persisted access
// token: removing it on logout is the auth layer's job.
func (s *ContextStore) ClearOrganization(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.role = ""
	s.memberships = nil
	s.lastErr = ""
	s.checkpointLocked(ctx)
}

// HasPermission reports whether the session may exercise permissionKey in the
// current organization. Owner and admin pass unconditionally; lower roles are
// checked against their membership's permission map.
func (s *ContextStore) HasPermission(permissionKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.role == "" {
		return false
	}
	if s.role == model.RoleOwner || s.role == model.RoleAdmin {
		return true
	}

	for i := range s.memberships {
		if s.memberships[i].OrganizationID == s.current.ID {
			return s.memberships[i].Permissions[permissionKey]
		}
	}
	return false
}

// IsOwnerOrAdmin reports whether the current role bypasses the permission map.
func (s *ContextStore) IsOwnerOrAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.role == model.RoleOwner || s.role == model.RoleAdmin
}

// CurrentOrganizationID returns the active organization's id, if one is set.
func (s *ContextStore) CurrentOrganizationID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return 0, false
	}
	return s.current.ID, true
}

// RequireRole reports whether the current role is one of roles. False when no
// organization is selected.
func (s *ContextStore) RequireRole(roles ...model.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.role == "" {
		return false
	}
	for _, r := range roles {
		if s.role == r {
			return true
		}
	}
	return false
}

// Err returns the recorded message of the last failed operation, or "".
func (s *ContextStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

// Snapshot returns a copy of the full state record.
func (s *ContextStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CurrentRole: s.role,
		IsLoading:   s.isLoading,
		IsSwitching: s.isSwitching,
		Error:       s.lastErr,
	}
	if s.current != nil {
		org := *s.current
		snap.CurrentOrganization = &org
	}
	if s.memberships != nil {
		snap.Organizations = append([]model.Membership(nil), s.memberships...)
	}
	return snap
}

// checkpointLocked writes the durable slice. Callers hold s.mu. Checkpoint
// failures do not fail the operation that triggered them; the in-memory state
// is authoritative and the next successful mutation rewrites the slice.
func (s *ContextStore) checkpointLocked(ctx context.Context) {
	cp := checkpoint{CurrentOrganization: s.current, CurrentRole: s.role}
	raw, err := json.Marshal(cp)
	if err != nil {
		slog.Warn("encoding organization checkpoint", "error", err)
		return
	}
	if err := s.vault.Set(ctx, checkpointKey, string(raw)); err != nil {
		slog.Warn("persisting organization checkpoint", "error", err)
	}
}

// failureMessage extracts a human-readable message from err, falling back to
// the operation-specific string when there is none.
func failureMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
