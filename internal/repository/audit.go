// internal/repository/audit.go
package repository

import (
	"context"
	"fmt"

	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepositoryIface interface {
	Create(ctx context.Context, entry *model.ContextAuditLog) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.ContextAuditLog, error)
}

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *model.ContextAuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("creating audit entry: %w", err)
	}
	return nil
}

// FindByUser returns the user's most recent switch attempts, newest first.
func (r *AuditRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.ContextAuditLog, error) {
	var entries []model.ContextAuditLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("finding audit entries: %w", err)
	}
	return entries, nil
}
