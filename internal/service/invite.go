// internal/service/invite.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fleetgrid/orgctx/internal/config"
	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/fleetgrid/orgctx/internal/email"
	"github.com/fleetgrid/orgctx/internal/email/mailer"
	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/fleetgrid/orgctx/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// InviteService creates membership invitations and turns accepted invites
// into memberships.
type InviteService struct {
	invites      repository.InviteRepositoryIface
	memberships  repository.MembershipRepositoryIface
	orgs         repository.OrganizationRepositoryIface
	emailService *email.Service
	config       *config.Config
	validate     *validator.Validate
}

func NewInviteService(
	invites repository.InviteRepositoryIface,
	memberships repository.MembershipRepositoryIface,
	orgs repository.OrganizationRepositoryIface,
	emailService *email.Service,
	config *config.Config,
) *InviteService {
	return &InviteService{
		invites:      invites,
		memberships:  memberships,
		orgs:         orgs,
		emailService: emailService,
		config:       config,
		validate:     validator.New(),
	}
}

type CreateInviteInput struct {
	OrganizationID int64      `json:"organization_id" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	Role           model.Role `json:"role" validate:"required"`
	InvitedByID    uuid.UUID  `json:"-"`
}

// Create records an invitation and emails the invite link to the invitee.
func (s *InviteService) Create(ctx context.Context, input CreateInviteInput) (*model.Invite, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	if !input.Role.Valid() || input.Role == model.RoleOwner {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrInvalidInput, input.Role)
	}

	org, err := s.orgs.FindByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !org.IsActive {
		return nil, domain.ErrOrganizationInactive
	}

	invite := &model.Invite{
		OrganizationID: org.ID,
		Email:          input.Email,
		Role:           input.Role,
		Token:          generateInviteToken(),
		InvitedByID:    input.InvitedByID,
		ExpiresAt:      time.Now().Add(s.config.InviteTTL),
	}

	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("creating invite: %w", err)
	}

	if s.emailService != nil {
		inviteLink := fmt.Sprintf("%s/api/invites/accept?token=%s", s.config.BaseURL, invite.Token)
		if err := mailer.SendInvitationEmail(s.emailService, invite.Email, org.Name, string(invite.Role), inviteLink); err != nil {
			return nil, fmt.Errorf("sending invitation email: %w", err)
		}
	}

	return invite, nil
}

type AcceptInviteInput struct {
	Token  string    `json:"token" validate:"required"`
	UserID uuid.UUID `json:"-"`
}

// Accept converts a pending invite into an active membership for the
// accepting user. Roles below admin start with an empty permission map; an
// admin grants fine-grained permissions afterwards.
func (s *InviteService) Accept(ctx context.Context, input AcceptInviteInput) (*model.Membership, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	invite, err := s.invites.FindByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	if invite.AcceptedAt != nil {
		return nil, domain.ErrInviteAlreadyAccepted
	}
	if time.Now().After(invite.ExpiresAt) {
		return nil, domain.ErrInviteExpired
	}

	membership := &model.Membership{
		OrganizationID: invite.OrganizationID,
		UserID:         input.UserID,
		Role:           invite.Role,
		IsActive:       true,
	}
	if !invite.Role.AtLeast(model.RoleAdmin) {
		membership.Permissions = model.PermissionMap{}
	}

	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, err
	}

	now := time.Now()
	invite.AcceptedAt = &now
	if err := s.invites.Update(ctx, invite); err != nil {
		return nil, fmt.Errorf("marking invite accepted: %w", err)
	}

	membership.Organization = invite.Organization
	return membership, nil
}

// generateInviteToken creates a secure random invite token
func generateInviteToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic(err) // This should never happen
	}
	return hex.EncodeToString(bytes)
}
