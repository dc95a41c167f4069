package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey stores a replayable checkout response keyed by the client's Idempotency-Key
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_key_cashier;size:255;not null" json:"key"`
	CashierID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_idempotency_key_cashier;not null" json:"cashier_id"`
	Endpoint     string    `gorm:"size:255;not null" json:"endpoint"` // e.g. "POST /api/v1/checkout"
	ResponseCode int       `gorm:"not null" json:"response_code"`
	ResponseBody string    `gorm:"type:text" json:"response_body"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
