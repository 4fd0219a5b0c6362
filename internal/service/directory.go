// internal/service/directory.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetgrid/orgctx/internal/auth"
	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/fleetgrid/orgctx/internal/orgapi"
	"github.com/fleetgrid/orgctx/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DirectoryService is the server side of the organization API: it lists a
// user's memberships and issues organization-scoped tokens on switch.
type DirectoryService struct {
	memberships  repository.MembershipRepositoryIface
	users        repository.UserRepositoryIface
	tokenManager *auth.TokenManager
	audit        repository.AuditRepositoryIface
	validate     *validator.Validate
}

func NewDirectoryService(
	memberships repository.MembershipRepositoryIface,
	users repository.UserRepositoryIface,
	tokenManager *auth.TokenManager,
) *DirectoryService {
	return &DirectoryService{
		memberships:  memberships,
		users:        users,
		tokenManager: tokenManager,
		validate:     validator.New(),
	}
}

// WithAudit enables the switch audit trail. Without it, switches are not
// recorded.
func (s *DirectoryService) WithAudit(audit repository.AuditRepositoryIface) *DirectoryService {
	s.audit = audit
	return s
}

// ListMemberships returns the user's memberships in the repository's order.
func (s *DirectoryService) ListMemberships(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	return s.memberships.FindByUser(ctx, userID)
}

type SwitchInput struct {
	UserID         uuid.UUID `json:"user_id" validate:"required"`
	SessionID      string    `json:"session_id"`
	OrganizationID int64     `json:"organization_id" validate:"required"`
}

// Switch validates that the user holds an active membership in an active
// organization and returns a token re-scoped to it. Unlike the context
// store's precondition check, the membership's own active flag is enforced
// here: an inactive membership never yields a token.
func (s *DirectoryService) Switch(ctx context.Context, input SwitchInput) (*orgapi.SwitchResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	result, err := s.doSwitch(ctx, input)
	s.recordSwitch(ctx, input, err)
	return result, err
}

func (s *DirectoryService) doSwitch(ctx context.Context, input SwitchInput) (*orgapi.SwitchResult, error) {
	membership, err := s.memberships.FindByUserAndOrganization(ctx, input.UserID, input.OrganizationID)
	if err != nil {
		return nil, err
	}

	if !membership.IsActive {
		return nil, domain.ErrMembershipInactive
	}
	if !membership.Organization.IsActive {
		return nil, domain.ErrOrganizationInactive
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenManager.GenerateScoped(
		user.ID.String(),
		user.Email,
		input.SessionID,
		membership.OrganizationID,
		membership.Role,
	)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &orgapi.SwitchResult{AccessToken: token}, nil
}

// ListSwitchHistory returns the user's most recent switch attempts. Empty
// when no audit repository is configured.
func (s *DirectoryService) ListSwitchHistory(ctx context.Context, userID uuid.UUID, limit int) ([]model.ContextAuditLog, error) {
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.FindByUser(ctx, userID, limit)
}

// recordSwitch appends the attempt to the audit trail. Audit failures are
// logged, never surfaced; the switch outcome stands on its own.
func (s *DirectoryService) recordSwitch(ctx context.Context, input SwitchInput, switchErr error) {
	if s.audit == nil {
		return
	}

	entry := &model.ContextAuditLog{
		UserID:         input.UserID,
		OrganizationID: input.OrganizationID,
		SessionID:      input.SessionID,
		Granted:        switchErr == nil,
	}
	if switchErr != nil {
		entry.Detail = switchErr.Error()
	}

	if err := s.audit.Create(ctx, entry); err != nil {
		slog.WarnContext(ctx, "recording switch audit entry", "error", err)
	}
}

// ForUser binds the directory to one session, yielding the collaborator
// interface the context store consumes in single-service deployments.
func (s *DirectoryService) ForUser(userID uuid.UUID, sessionID string) *UserDirectory {
	return &UserDirectory{directory: s, userID: userID, sessionID: sessionID}
}

// UserDirectory implements orgapi.OrganizationAPI for one user's session.
type UserDirectory struct {
	directory *DirectoryService
	userID    uuid.UUID
	sessionID string
}

func (d *UserDirectory) GetAll(ctx context.Context) ([]model.Membership, error) {
	return d.directory.ListMemberships(ctx, d.userID)
}

func (d *UserDirectory) Switch(ctx context.Context, organizationID int64) (*orgapi.SwitchResult, error) {
	return d.directory.Switch(ctx, SwitchInput{
		UserID:         d.userID,
		SessionID:      d.sessionID,
		OrganizationID: organizationID,
	})
}
