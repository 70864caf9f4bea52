package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecordSaleRequest struct {
	ProductCode string `json:"product_code"   validate:"required"`
	// Amount is raw operator input: "10,50" and "10.50" are both accepted.
	Amount        string `json:"amount"         validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=CASH PIX DEBIT CREDIT"`
}

type CancelSaleRequest struct {
	Reason string `json:"reason"   validate:"required,min=3"`
	// Password re-verifies the acting admin's own credentials.
	Password string `json:"password" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleResponse struct {
	ID            string          `json:"id"`
	ProductCode   string          `json:"product_code"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	OperatorID    string          `json:"operator_id"`
	OperatorName  string          `json:"operator_name,omitempty"`
	CashSessionID string          `json:"cash_session_id"`
	CreatedAt     string          `json:"created_at"`
	Canceled      bool            `json:"canceled"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
}

// DayLedgerResponse is the add-sale screen payload: the open session, every
// sale of the day (cancelled ones flagged) and live totals excluding them.
type DayLedgerResponse struct {
	Session *SessionResponse `json:"session,omitempty"`
	Sales   []SaleResponse   `json:"sales"`
	Totals  *MethodTotals    `json:"totals,omitempty"`
}

type SaleReceiptResponse struct {
	Sale         SaleResponse `json:"sale"`
	BusinessDate string       `json:"business_date"`
	OpenedByName string       `json:"opened_by_name"`
}
