package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	// Business date in YYYY-MM-DD; defaults to today (America/Sao_Paulo).
	Date          string          `json:"date"           validate:"omitempty,datetime=2006-01-02"`
	OpeningAmount decimal.Decimal `json:"opening_amount" validate:"min=0"`
}

// CloseSessionRequest carries the physically counted totals per method.
// Cash is the full drawer count (opening float included).
type CloseSessionRequest struct {
	Date           string          `json:"date"            validate:"omitempty,datetime=2006-01-02"`
	ReportedCash   decimal.Decimal `json:"reported_cash"   validate:"min=0"`
	ReportedPix    decimal.Decimal `json:"reported_pix"    validate:"min=0"`
	ReportedDebit  decimal.Decimal `json:"reported_debit"  validate:"min=0"`
	ReportedCredit decimal.Decimal `json:"reported_credit" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MethodTotals is the expected-totals projection shared by the status screen,
// the close flow and the close receipt.
type MethodTotals struct {
	Cash           decimal.Decimal `json:"cash"`
	Pix            decimal.Decimal `json:"pix"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	DrawerExpected decimal.Decimal `json:"drawer_expected"` // opening + cash
}

type DiffTotals struct {
	Cash    decimal.Decimal `json:"cash"`
	Pix     decimal.Decimal `json:"pix"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Overall decimal.Decimal `json:"overall"`
}

type SessionResponse struct {
	ID            string          `json:"id"`
	BusinessDate  string          `json:"business_date"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	OpenedBy      string          `json:"opened_by"`
	OpenedAt      string          `json:"opened_at"`
	Status        string          `json:"status"`
	ClosedAt      *string         `json:"closed_at,omitempty"`
	Expected      *MethodTotals   `json:"expected,omitempty"`
	Reported      *MethodTotals   `json:"reported,omitempty"`
	Diffs         *DiffTotals     `json:"diffs,omitempty"`
}

type SessionStatusResponse struct {
	Open    bool             `json:"open"`
	Session *SessionResponse `json:"session,omitempty"`
}

// CloseReceiptResponse is the printable close-of-day record.
type CloseReceiptResponse struct {
	Session      SessionResponse `json:"session"`
	OpenedByName string          `json:"opened_by_name"`
	ClosedByName string          `json:"closed_by_name"`
}
