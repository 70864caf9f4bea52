package repository

import (
	"context"
	"time"

	"github.com/alexconectado/pdv-caixa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditListFilter narrows the audit listing; zero values mean "no filter".
type AuditListFilter struct {
	UserID *uuid.UUID
	Start  *time.Time
	End    *time.Time
	Limit  int
}

type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	CreateTx(tx *gorm.DB, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditListFilter) ([]model.AuditLog, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) CreateTx(tx *gorm.DB, entry *model.AuditLog) error {
	return tx.Create(entry).Error
}

func (r *auditRepo) List(ctx context.Context, filter AuditListFilter) ([]model.AuditLog, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Start != nil {
		q = q.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		// End is a calendar date; include the whole day.
		q = q.Where("created_at < ?", filter.End.AddDate(0, 0, 1))
	}
	var logs []model.AuditLog
	err := q.Preload("User").Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
