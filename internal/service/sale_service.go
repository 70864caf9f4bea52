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
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SaleService interface {
	// Record parses the raw amount and binds the sale to the session that is
	// open for the current business day (America/Sao_Paulo).
	Record(ctx context.Context, operator *model.User, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	// ListToday is the add-sale screen payload: open session, every sale of
	// the day (cancelled ones flagged) and totals that exclude them.
	ListToday(ctx context.Context) (*dto.DayLedgerResponse, error)
	// Cancel writes the tombstone plus an immutable audit snapshot after
	// re-verifying the acting admin's own password.
	Cancel(ctx context.Context, saleID uuid.UUID, admin *model.User, req dto.CancelSaleRequest) error
	// Delete hard-deletes a sale, writing the audit snapshot first. A missing
	// sale is a silent no-op.
	Delete(ctx context.Context, saleID uuid.UUID, admin *model.User) error
	Receipt(ctx context.Context, saleID uuid.UUID) (*dto.SaleReceiptResponse, error)
}

type saleService struct {
	sales repository.SaleRepository
	cash  CashService
	cashR repository.CashRepository
	audit repository.AuditRepository
}

func NewSaleService(sales repository.SaleRepository, cash CashService, cashRepo repository.CashRepository, audit repository.AuditRepository) SaleService {
	return &saleService{sales: sales, cash: cash, cashR: cashRepo, audit: audit}
}

func (s *saleService) Record(ctx context.Context, operator *model.User, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}

	today := money.BusinessDay(time.Now())
	session, err := s.cashR.FindOpenByDate(ctx, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}

	sale := &model.Sale{
		ProductCode:   req.ProductCode,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		OperatorID:    operator.ID,
		CashSessionID: session.ID,
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}

	resp := saleToResponse(sale)
	resp.OperatorName = operator.FullName
	return &resp, nil
}

func (s *saleService) ListToday(ctx context.Context) (*dto.DayLedgerResponse, error) {
	today := money.BusinessDay(time.Now())
	session, err := s.cashR.FindOpenByDate(ctx, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.DayLedgerResponse{Sales: []dto.SaleResponse{}}, nil
		}
		return nil, err
	}

	sales, err := s.sales.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	totals, err := s.cash.ExpectedTotals(ctx, session)
	if err != nil {
		return nil, err
	}

	resp := &dto.DayLedgerResponse{
		Sales:  make([]dto.SaleResponse, 0, len(sales)),
		Totals: totals,
	}
	sessionResp := sessionToResponse(session, "")
	resp.Session = &sessionResp
	for i := range sales {
		resp.Sales = append(resp.Sales, saleToResponse(&sales[i]))
	}
	return resp, nil
}

func (s *saleService) Cancel(ctx context.Context, saleID uuid.UUID, admin *model.User, req dto.CancelSaleRequest) error {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if sale.Cancellation != nil {
		return ErrAlreadyCancelled
	}
	// Same primitive as login — defense against a hijacked admin session.
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return ErrInvalidPassword
	}

	// Snapshot taken now, independent of any later mutation of the sale row.
	details, _ := json.Marshal(map[string]string{
		"reason":         req.Reason,
		"product_code":   sale.ProductCode,
		"amount":         sale.Amount.StringFixed(2),
		"payment_method": sale.PaymentMethod,
		"operator_id":    sale.OperatorID.String(),
	})

	return runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		cancel := &model.SaleCancellation{
			SaleID:       sale.ID,
			Reason:       req.Reason,
			CanceledByID: admin.ID,
			CanceledAt:   time.Now().UTC(),
		}
		if err := s.sales.CreateCancellationTx(tx, cancel); err != nil {
			return err
		}
		entry := &model.AuditLog{
			Action:     model.AuditCancelSale,
			EntityType: "sale",
			EntityID:   &sale.ID,
			UserID:     admin.ID,
			Details:    string(details),
		}
		return s.audit.CreateTx(tx, entry)
	})
}

func (s *saleService) Delete(ctx context.Context, saleID uuid.UUID, admin *model.User) error {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already gone — deletion is idempotent by design of the route.
			return nil
		}
		return err
	}

	details, _ := json.Marshal(map[string]string{
		"product_code":   sale.ProductCode,
		"amount":         sale.Amount.StringFixed(2),
		"payment_method": sale.PaymentMethod,
		"operator_id":    sale.OperatorID.String(),
	})

	err = runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		// The audit row is written before the delete — after commit it is the
		// only remaining trace of the sale.
		entry := &model.AuditLog{
			Action:     model.AuditDeleteSale,
			EntityType: "sale",
			EntityID:   &sale.ID,
			UserID:     admin.ID,
			Details:    string(details),
		}
		if err := s.audit.CreateTx(tx, entry); err != nil {
			return err
		}
		return s.sales.DeleteTx(tx, sale.ID)
	})
	if err == nil {
		log.Info().Str("sale_id", sale.ID.String()).Str("admin", admin.Username).Msg("sale hard-deleted")
	}
	return err
}

func (s *saleService) Receipt(ctx context.Context, saleID uuid.UUID) (*dto.SaleReceiptResponse, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := &dto.SaleReceiptResponse{Sale: saleToResponse(sale)}
	if sale.CashSession != nil {
		resp.BusinessDate = money.FormatDate(sale.CashSession.BusinessDate)
		if opened, err := s.cashR.FindByID(ctx, sale.CashSessionID); err == nil && opened.OpenedBy != nil {
			resp.OpenedByName = opened.OpenedBy.FullName
		}
	}
	return resp, nil
}

func saleToResponse(s *model.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:            s.ID.String(),
		ProductCode:   s.ProductCode,
		Amount:        s.Amount,
		PaymentMethod: s.PaymentMethod,
		OperatorID:    s.OperatorID.String(),
		CashSessionID: s.CashSessionID.String(),
		CreatedAt:     money.FormatDateTime(s.CreatedAt),
	}
	if s.Operator != nil {
		resp.OperatorName = s.Operator.FullName
	}
	if s.Cancellation != nil {
		resp.Canceled = true
		resp.CancelReason = s.Cancellation.Reason
	}
	return resp
}
