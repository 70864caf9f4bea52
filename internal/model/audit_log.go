package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action tags.
const (
	AuditCancelSale = "cancel_sale"
	AuditDeleteSale = "delete_sale"
	AuditCloseCash  = "close_cash"
	AuditCreateUser = "create_user"
)

// AuditLog is an append-only record of sensitive actions. Details carries a
// JSON snapshot taken at action time, independent of later row mutation.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Action     string     `gorm:"type:varchar(30);not null;index"`
	EntityType string     `gorm:"type:varchar(20);not null"`
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	User       *User      `gorm:"foreignKey:UserID"`
	Details    string
	CreatedAt  time.Time `gorm:"index"`
}
