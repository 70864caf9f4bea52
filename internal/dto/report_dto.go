package dto

import "github.com/shopspring/decimal"

// ReportFilter selects sales through their owning session's business date
// (inclusive range), with optional narrowing by operator, payment method and
// session status.
type ReportFilter struct {
	Start         string `form:"start"          validate:"omitempty,datetime=2006-01-02"`
	End           string `form:"end"            validate:"omitempty,datetime=2006-01-02"`
	OperatorID    string `form:"operator_id"    validate:"omitempty,uuid"`
	PaymentMethod string `form:"payment_method" validate:"omitempty,oneof=CASH PIX DEBIT CREDIT"`
	SessionStatus string `form:"session_status" validate:"omitempty,oneof=open closed"`
}

type PeriodTotals struct {
	Gross         decimal.Decimal `json:"gross"`
	Count         int             `json:"count"`
	PerMethod     MethodTotals    `json:"per_method"`
	DailyAverage  decimal.Decimal `json:"daily_average"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

type ProductRanking struct {
	ProductCode string          `json:"product_code"`
	Count       int             `json:"count"`
	Total       decimal.Decimal `json:"total"`
}

type OperatorRanking struct {
	OperatorID   string          `json:"operator_id"`
	OperatorName string          `json:"operator_name"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

type ReportResponse struct {
	Start    string            `json:"start"`
	End      string            `json:"end"`
	Sales    []SaleResponse    `json:"sales"`
	Sessions []SessionResponse `json:"sessions"`
	Totals   PeriodTotals      `json:"totals"`
}

type DashboardResponse struct {
	MonthStart       string            `json:"month_start"`
	Totals           PeriodTotals      `json:"totals"`
	TopProducts      []ProductRanking  `json:"top_products"`
	OperatorRankings []OperatorRanking `json:"operator_rankings"`
}
