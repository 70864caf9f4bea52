package service_test

// In-memory repository implementations shared by the service tests. They
// mirror the SQL semantics the real repositories rely on: FindOpenByDate
// matches by business date + status, SumBySessionMethod excludes tombstoned
// sales, ListByRange filters through the owning session's business date.

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alexconectado/pdv-caixa/internal/config"
	"github.com/alexconectado/pdv-caixa/internal/model"
	"github.com/alexconectado/pdv-caixa/internal/money"
	"github.com/alexconectado/pdv-caixa/internal/repository"
	"github.com/alexconectado/pdv-caixa/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Users ─────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *memUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *memUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *memUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*memUserRepo)(nil)

// ── Cash sessions ─────────────────────────────────────────────────────────────

type memCashRepo struct {
	sessions map[uuid.UUID]*model.CashSession
}

func newMemCashRepo() *memCashRepo {
	return &memCashRepo{sessions: make(map[uuid.UUID]*model.CashSession)}
}

func (r *memCashRepo) Create(_ context.Context, s *model.CashSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memCashRepo) FindOpenByDate(_ context.Context, date time.Time) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.BusinessDate.Equal(date) && s.Status == model.SessionOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCashRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *memCashRepo) Update(_ context.Context, s *model.CashSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *memCashRepo) UpdateTx(_ *gorm.DB, s *model.CashSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *memCashRepo) ListByDateRange(_ context.Context, start, end time.Time, status string) ([]model.CashSession, error) {
	var out []model.CashSession
	for _, s := range r.sessions {
		if s.BusinessDate.Before(start) || s.BusinessDate.After(end) {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusinessDate.Before(out[j].BusinessDate) })
	return out, nil
}

var _ repository.CashRepository = (*memCashRepo)(nil)

// ── Sales ─────────────────────────────────────────────────────────────────────

type memSaleRepo struct {
	sales []*model.Sale
	// cash resolves the owning session's business date for ListByRange.
	cash *memCashRepo
}

func newMemSaleRepo(cash *memCashRepo) *memSaleRepo {
	return &memSaleRepo{cash: cash}
}

func (r *memSaleRepo) DB() *gorm.DB { return nil }

func (r *memSaleRepo) Create(_ context.Context, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.sales = append(r.sales, s)
	return nil
}

func (r *memSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id {
			if sess, ok := r.cash.sessions[s.CashSessionID]; ok {
				s.CashSession = sess
			}
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSaleRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CashSessionID == sessionID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSaleRepo) SumBySessionMethod(_ context.Context, sessionID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := map[string]decimal.Decimal{
		model.PaymentCash:   decimal.Zero,
		model.PaymentPix:    decimal.Zero,
		model.PaymentDebit:  decimal.Zero,
		model.PaymentCredit: decimal.Zero,
	}
	for _, s := range r.sales {
		if s.CashSessionID != sessionID || s.Cancellation != nil {
			continue
		}
		sums[s.PaymentMethod] = sums[s.PaymentMethod].Add(s.Amount)
	}
	return sums, nil
}

func (r *memSaleRepo) ListByRange(_ context.Context, filter repository.SaleRangeFilter) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		sess, ok := r.cash.sessions[s.CashSessionID]
		if !ok {
			continue
		}
		if sess.BusinessDate.Before(filter.Start) || sess.BusinessDate.After(filter.End) {
			continue
		}
		if filter.SessionStatus != "" && sess.Status != filter.SessionStatus {
			continue
		}
		if filter.OperatorID != nil && s.OperatorID != *filter.OperatorID {
			continue
		}
		if filter.PaymentMethod != "" && s.PaymentMethod != filter.PaymentMethod {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSaleRepo) CreateCancellationTx(_ *gorm.DB, c *model.SaleCancellation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for _, s := range r.sales {
		if s.ID == c.SaleID {
			s.Cancellation = c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	for i, s := range r.sales {
		if s.ID == id {
			r.sales = append(r.sales[:i], r.sales[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ repository.SaleRepository = (*memSaleRepo)(nil)

// ── Audit ─────────────────────────────────────────────────────────────────────

type memAuditRepo struct {
	entries []model.AuditLog
}

func (r *memAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	return r.CreateTx(nil, entry)
}

func (r *memAuditRepo) CreateTx(_ *gorm.DB, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) List(_ context.Context, filter repository.AuditListFilter) ([]model.AuditLog, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var out []model.AuditLog
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.entries[i]
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

var _ repository.AuditRepository = (*memAuditRepo)(nil)

// ── Failing repositories ──────────────────────────────────────────────────────

// failingCashRepo simulates a store outage on every lookup; the embedded
// repository keeps the write methods usable for seeding.
type failingCashRepo struct {
	repository.CashRepository
	err error
}

func (r *failingCashRepo) FindOpenByDate(context.Context, time.Time) (*model.CashSession, error) {
	return nil, r.err
}

func (r *failingCashRepo) FindByID(context.Context, uuid.UUID) (*model.CashSession, error) {
	return nil, r.err
}

type failingSaleRepo struct {
	repository.SaleRepository
	err error
}

func (r *failingSaleRepo) FindByID(context.Context, uuid.UUID) (*model.Sale, error) {
	return nil, r.err
}

type failingAuditRepo struct {
	memAuditRepo
	err error
}

func (r *failingAuditRepo) CreateTx(*gorm.DB, *model.AuditLog) error {
	return r.err
}

// ── Shared helpers ────────────────────────────────────────────────────────────

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := money.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

// ── Test environment ──────────────────────────────────────────────────────────

type testEnv struct {
	users  *memUserRepo
	cash   *memCashRepo
	sales  *memSaleRepo
	audit  *memAuditRepo
	cfg    *config.Config
	admin  *model.User
	clerk  *model.User
	authS  service.AuthService
	cashS  service.CashService
	saleS  service.SaleService
	report service.ReportService
}

const testAdminPassword = "s3nha-admin"

func newTestEnv() *testEnv {
	users := newMemUserRepo()
	cash := newMemCashRepo()
	sales := newMemSaleRepo(cash)
	audit := &memAuditRepo{}
	cfg := &config.Config{
		Env:                  "test",
		SessionSecret:        "test-secret",
		SessionTTLHours:      12,
		DefaultAdminPassword: testAdminPassword,
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	admin := &model.User{
		ID: uuid.New(), Username: "admin", FullName: "Administrador",
		PasswordHash: string(hash), Role: model.RoleAdmin, Active: true,
	}
	users.users[admin.ID] = admin

	clerkHash, _ := bcrypt.GenerateFromPassword([]byte("senha-operador"), bcrypt.MinCost)
	clerk := &model.User{
		ID: uuid.New(), Username: "maria", FullName: "Maria Silva",
		PasswordHash: string(clerkHash), Role: model.RoleOperator, Active: true,
	}
	users.users[clerk.ID] = clerk

	cashS := service.NewCashService(cash, sales, audit)
	return &testEnv{
		users: users, cash: cash, sales: sales, audit: audit, cfg: cfg,
		admin: admin, clerk: clerk,
		authS:  service.NewAuthService(users, audit, cfg),
		cashS:  cashS,
		saleS:  service.NewSaleService(sales, cashS, cash, audit),
		report: service.NewReportService(sales, cash, nil),
	}
}
