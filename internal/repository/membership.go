// internal/repository/membership.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepositoryIface interface {
	Create(ctx context.Context, membership *model.Membership) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error)
	FindByUserAndOrganization(ctx context.Context, userID uuid.UUID, organizationID int64) (*model.Membership, error)
	Update(ctx context.Context, membership *model.Membership) error
}

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, membership *model.Membership) error {
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrMembershipExists
		}
		return fmt.Errorf("creating membership: %w", err)
	}
	return nil
}

// FindByUser returns every membership of the user with its organization
// preloaded, oldest first. The order is part of the contract: the context
// store adopts the first eligible entry when nothing is selected yet.
func (r *MembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	if err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ?", userID).
		Order("id").
		Find(&memberships).Error; err != nil {
		return nil, fmt.Errorf("finding user memberships: %w", err)
	}
	return memberships, nil
}

func (r *MembershipRepository) FindByUserAndOrganization(ctx context.Context, userID uuid.UUID, organizationID int64) (*model.Membership, error) {
	var membership model.Membership
	if err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("finding membership: %w", err)
	}
	return &membership, nil
}

func (r *MembershipRepository) Update(ctx context.Context, membership *model.Membership) error {
	if err := r.db.WithContext(ctx).Save(membership).Error; err != nil {
		return fmt.Errorf("updating membership: %w", err)
	}
	return nil
}
