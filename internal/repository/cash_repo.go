package repository

import (
	"context"
	"time"

	"github.com/alexconectado/pdv-caixa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashRepository interface {
	Create(ctx context.Context, s *model.CashSession) error
	FindOpenByDate(ctx context.Context, date time.Time) (*model.CashSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error)
	Update(ctx context.Context, s *model.CashSession) error
	UpdateTx(tx *gorm.DB, s *model.CashSession) error
	ListByDateRange(ctx context.Context, start, end time.Time, status string) ([]model.CashSession, error)
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

func (r *cashRepo) Create(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashRepo) FindOpenByDate(ctx context.Context, date time.Time) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("business_date = ? AND status = ?", date, model.SessionOpen).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).Preload("OpenedBy").First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) Update(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cashRepo) UpdateTx(tx *gorm.DB, s *model.CashSession) error {
	return tx.Save(s).Error
}

func (r *cashRepo) ListByDateRange(ctx context.Context, start, end time.Time, status string) ([]model.CashSession, error) {
	q := r.db.WithContext(ctx).
		Preload("OpenedBy").
		Where("business_date >= ? AND business_date <= ?", start, end)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var sessions []model.CashSession
	err := q.Order("business_date ASC").Find(&sessions).Error
	return sessions, err
}
