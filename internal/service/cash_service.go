package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/alexconectado/pdv-caixa/internal/dto"
	"github.com/alexconectado/pdv-caixa/internal/model"
	"github.com/alexconectado/pdv-caixa/internal/money"
	"github.com/alexconectado/pdv-caixa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashService interface {
	Open(ctx context.Context, actor *model.User, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	// Close computes expected totals, derives the reconciliation diffs and
	// transitions the session open → closed. Closed is terminal.
	Close(ctx context.Context, actor *model.User, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	Status(ctx context.Context, dateStr string) (*dto.SessionStatusResponse, error)
	Receipt(ctx context.Context, id uuid.UUID, closedBy *model.User) (*dto.CloseReceiptResponse, error)
	// ExpectedTotals is the single projection of system-computed totals for a
	// session — the status screen, the close flow and both receipts all go
	// through it so the numbers can never drift apart.
	ExpectedTotals(ctx context.Context, session *model.CashSession) (*dto.MethodTotals, error)
}

type cashService struct {
	cash  repository.CashRepository
	sales repository.SaleRepository
	audit repository.AuditRepository
}

func NewCashService(cash repository.CashRepository, sales repository.SaleRepository, audit repository.AuditRepository) CashService {
	return &cashService{cash: cash, sales: sales, audit: audit}
}

// resolveDate parses an optional YYYY-MM-DD form value, defaulting to the
// current business day in America/Sao_Paulo.
func resolveDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return money.BusinessDay(time.Now()), nil
	}
	return money.ParseDate(dateStr)
}

func (s *cashService) Open(ctx context.Context, actor *model.User, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	date, err := resolveDate(req.Date)
	if err != nil {
		return nil, err
	}
	// Negative floats make the drawer-expected figure meaningless.
	if req.OpeningAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	existing, err := s.cash.FindOpenByDate(ctx, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateOpenSession
	}

	session := &model.CashSession{
		OpenedByID:    actor.ID,
		BusinessDate:  date,
		OpeningAmount: req.OpeningAmount.Round(2),
		OpenedAt:      time.Now().UTC(),
		Status:        model.SessionOpen,
	}
	if err := s.cash.Create(ctx, session); err != nil {
		return nil, err
	}

	resp := sessionToResponse(session, actor.FullName)
	return &resp, nil
}

func (s *cashService) Close(ctx context.Context, actor *model.User, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	date, err := resolveDate(req.Date)
	if err != nil {
		return nil, err
	}
	session, err := s.cash.FindOpenByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}

	expected, err := s.ExpectedTotals(ctx, session)
	if err != nil {
		return nil, err
	}

	// Diffs are expected − reported, rounded to 2 decimals here and nowhere
	// earlier; the raw sums keep full precision up to this point.
	diffCash := expected.DrawerExpected.Sub(req.ReportedCash).Round(2)
	diffPix := expected.Pix.Sub(req.ReportedPix).Round(2)
	diffDebit := expected.Debit.Sub(req.ReportedDebit).Round(2)
	diffCredit := expected.Credit.Sub(req.ReportedCredit).Round(2)
	diffOverall := expected.DrawerExpected.Add(expected.Pix).Add(expected.Debit).Add(expected.Credit).
		Sub(req.ReportedCash.Add(req.ReportedPix).Add(req.ReportedDebit).Add(req.ReportedCredit)).
		Round(2)

	now := time.Now().UTC()
	session.ReportedCash = &req.ReportedCash
	session.ReportedPix = &req.ReportedPix
	session.ReportedDebit = &req.ReportedDebit
	session.ReportedCredit = &req.ReportedCredit
	session.DiffCash = &diffCash
	session.DiffPix = &diffPix
	session.DiffDebit = &diffDebit
	session.DiffCredit = &diffCredit
	session.DiffOverall = &diffOverall
	session.Status = model.SessionClosed
	session.ClosedAt = &now

	details, _ := json.Marshal(map[string]string{
		"business_date": money.FormatDate(session.BusinessDate),
		"diff_overall":  diffOverall.StringFixed(2),
	})
	entry := &model.AuditLog{
		Action:     model.AuditCloseCash,
		EntityType: "cash_session",
		EntityID:   &session.ID,
		UserID:     actor.ID,
		Details:    string(details),
	}
	// The close transition and its audit entry land together or not at all.
	if err := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.cash.UpdateTx(tx, session); err != nil {
			return err
		}
		return s.audit.CreateTx(tx, entry)
	}); err != nil {
		return nil, err
	}

	resp := sessionToResponse(session, actor.FullName)
	resp.Expected = expected
	return &resp, nil
}

func (s *cashService) Status(ctx context.Context, dateStr string) (*dto.SessionStatusResponse, error) {
	date, err := resolveDate(dateStr)
	if err != nil {
		return nil, err
	}
	session, err := s.cash.FindOpenByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.SessionStatusResponse{Open: false}, nil
		}
		return nil, err
	}

	expected, err := s.ExpectedTotals(ctx, session)
	if err != nil {
		return nil, err
	}

	openedByName := ""
	if full, err := s.cash.FindByID(ctx, session.ID); err == nil && full.OpenedBy != nil {
		openedByName = full.OpenedBy.FullName
	}

	resp := sessionToResponse(session, openedByName)
	resp.Expected = expected
	return &dto.SessionStatusResponse{Open: true, Session: &resp}, nil
}

func (s *cashService) Receipt(ctx context.Context, id uuid.UUID, closedBy *model.User) (*dto.CloseReceiptResponse, error) {
	session, err := s.cash.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	expected, err := s.ExpectedTotals(ctx, session)
	if err != nil {
		return nil, err
	}

	openedByName := session.OpenedByID.String()
	if session.OpenedBy != nil {
		openedByName = session.OpenedBy.FullName
	}

	resp := sessionToResponse(session, openedByName)
	resp.Expected = expected
	return &dto.CloseReceiptResponse{
		Session:      resp,
		OpenedByName: openedByName,
		ClosedByName: closedBy.FullName,
	}, nil
}

func (s *cashService) ExpectedTotals(ctx context.Context, session *model.CashSession) (*dto.MethodTotals, error) {
	sums, err := s.sales.SumBySessionMethod(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	totals := &dto.MethodTotals{
		Cash:   sums[model.PaymentCash],
		Pix:    sums[model.PaymentPix],
		Debit:  sums[model.PaymentDebit],
		Credit: sums[model.PaymentCredit],
	}
	totals.DrawerExpected = session.OpeningAmount.Add(totals.Cash)
	return totals, nil
}

func sessionToResponse(s *model.CashSession, openedByName string) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:            s.ID.String(),
		BusinessDate:  money.FormatDate(s.BusinessDate),
		OpeningAmount: s.OpeningAmount,
		OpenedBy:      openedByName,
		OpenedAt:      s.OpenedAt.Format(time.RFC3339),
		Status:        s.Status,
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	if s.ReportedCash != nil {
		resp.Reported = &dto.MethodTotals{
			Cash:           *s.ReportedCash,
			Pix:            deref(s.ReportedPix),
			Debit:          deref(s.ReportedDebit),
			Credit:         deref(s.ReportedCredit),
			DrawerExpected: *s.ReportedCash,
		}
	}
	if s.DiffOverall != nil {
		resp.Diffs = &dto.DiffTotals{
			Cash:    deref(s.DiffCash),
			Pix:     deref(s.DiffPix),
			Debit:   deref(s.DiffDebit),
			Credit:  deref(s.DiffCredit),
			Overall: *s.DiffOverall,
		}
	}
	return resp
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
