// internal/repository/invite.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/fleetgrid/orgctx/internal/model"
	"gorm.io/gorm"
)

type InviteRepositoryIface interface {
	Create(ctx context.Context, invite *model.Invite) error
	FindByToken(ctx context.Context, token string) (*model.Invite, error)
	Update(ctx context.Context, invite *model.Invite) error
}

type InviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	if err := r.db.WithContext(ctx).Create(invite).Error; err != nil {
		return fmt.Errorf("creating invite: %w", err)
	}
	return nil
}

func (r *InviteRepository) FindByToken(ctx context.Context, token string) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.WithContext(ctx).
		Preload("Organization").
		First(&invite, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, fmt.Errorf("finding invite: %w", err)
	}
	return &invite, nil
}

func (r *InviteRepository) Update(ctx context.Context, invite *model.Invite) error {
	if err := r.db.WithContext(ctx).Save(invite).Error; err != nil {
		return fmt.Errorf("updating invite: %w", err)
	}
	return nil
}
