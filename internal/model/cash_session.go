package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status: "open" | "closed". Closed is terminal — there is no reopen.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// CashSession is one business day's till-reconciliation period, keyed by
// calendar date (America/Sao_Paulo), not wall-clock timestamps. At most one
// session may be open per date — enforced both in the service and by a
// partial unique index on (business_date) WHERE status = 'open'.
type CashSession struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OpenedByID    uuid.UUID       `gorm:"type:uuid;not null"`
	OpenedBy      *User           `gorm:"foreignKey:OpenedByID"`
	BusinessDate  time.Time       `gorm:"type:date;not null;index"`
	OpeningAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OpenedAt      time.Time
	Status        string `gorm:"type:varchar(10);not null;default:'open';index"`
	ClosedAt      *time.Time

	// Counted amounts reported by the operator at close time.
	ReportedCash   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ReportedPix    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ReportedDebit  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ReportedCredit *decimal.Decimal `gorm:"type:decimal(12,2)"`

	// Reconciliation diffs (expected − reported), computed once at close.
	DiffCash    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiffPix     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiffDebit   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiffCredit  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiffOverall *decimal.Decimal `gorm:"type:decimal(12,2)"`
}
