package model

import (
	"time"

	"github.com/google/uuid"
)

// Role: "admin" | "operator"
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User stores system users with role-based access.
// Users are never hard-deleted; deactivation flips Active.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	FullName     string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'operator';index"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
