package repository

import (
	"context"
	"time"

	"github.com/alexconectado/pdv-caixa/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRangeFilter narrows the report query. Zero values mean "no filter".
// Date filtering always goes through the owning session's business date.
type SaleRangeFilter struct {
	Start         time.Time
	End           time.Time
	OperatorID    *uuid.UUID
	PaymentMethod string
	SessionStatus string
}

type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Sale, error)
	// SumBySessionMethod returns per-method totals for one session, excluding
	// sales that carry a cancellation tombstone. This is the single source of
	// expected totals for reconciliation.
	SumBySessionMethod(ctx context.Context, sessionID uuid.UUID) (map[string]decimal.Decimal, error)
	ListByRange(ctx context.Context, filter SaleRangeFilter) ([]model.Sale, error)
	CreateCancellationTx(tx *gorm.DB, c *model.SaleCancellation) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Cancellation").Preload("Operator").Preload("CashSession").
		First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("cash_session_id = ?", sessionID).
		Preload("Cancellation").Preload("Operator").
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SumBySessionMethod(ctx context.Context, sessionID uuid.UUID) (map[string]decimal.Decimal, error) {
	rows := []struct {
		PaymentMethod string
		Total         decimal.Decimal
	}{}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("payment_method, COALESCE(SUM(amount), 0) AS total").
		Where("cash_session_id = ?", sessionID).
		Where("NOT EXISTS (SELECT 1 FROM sale_cancellations c WHERE c.sale_id = sales.id)").
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := map[string]decimal.Decimal{
		model.PaymentCash:   decimal.Zero,
		model.PaymentPix:    decimal.Zero,
		model.PaymentDebit:  decimal.Zero,
		model.PaymentCredit: decimal.Zero,
	}
	for _, row := range rows {
		sums[row.PaymentMethod] = row.Total
	}
	return sums, nil
}

func (r *saleRepo) ListByRange(ctx context.Context, filter SaleRangeFilter) ([]model.Sale, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Joins("JOIN cash_sessions ON cash_sessions.id = sales.cash_session_id").
		Where("cash_sessions.business_date >= ? AND cash_sessions.business_date <= ?", filter.Start, filter.End)

	if filter.SessionStatus != "" {
		q = q.Where("cash_sessions.status = ?", filter.SessionStatus)
	}
	if filter.OperatorID != nil {
		q = q.Where("sales.operator_id = ?", *filter.OperatorID)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("sales.payment_method = ?", filter.PaymentMethod)
	}

	var sales []model.Sale
	err := q.Preload("Cancellation").Preload("Operator").
		Order("sales.created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) CreateCancellationTx(tx *gorm.DB, c *model.SaleCancellation) error {
	return tx.Create(c).Error
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Sale{}, id).Error
}
