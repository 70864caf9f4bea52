package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the till.
const (
	PaymentCash   = "CASH"
	PaymentPix    = "PIX"
	PaymentDebit  = "DEBIT"
	PaymentCredit = "CREDIT"
)

// PaymentMethods lists every accepted method in display order.
var PaymentMethods = []string{PaymentCash, PaymentPix, PaymentDebit, PaymentCredit}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentDebit, PaymentCredit:
		return true
	}
	return false
}

// Sale is a single till entry, always bound to the session that was open when
// it was recorded. A sale row is retained even after cancellation — the
// Cancellation tombstone excludes it from financial totals.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductCode   string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(10);not null;index"`
	CreatedAt     time.Time       `gorm:"index"`
	OperatorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Operator      *User           `gorm:"foreignKey:OperatorID"`
	CashSessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CashSession   *CashSession    `gorm:"foreignKey:CashSessionID"`

	Cancellation *SaleCancellation `gorm:"foreignKey:SaleID"`
}

// SaleCancellation voids a sale without deleting it. At most one per sale.
// Never mutated or deleted once written.
type SaleCancellation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Reason       string    `gorm:"not null"`
	CanceledByID uuid.UUID `gorm:"type:uuid;not null"`
	CanceledBy   *User     `gorm:"foreignKey:CanceledByID"`
	CanceledAt   time.Time
}
