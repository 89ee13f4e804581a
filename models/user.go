package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a wallet-backed account
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Address   string    `gorm:"uniqueIndex;not null" json:"address"` // base58 wallet public key
	Token     string    `gorm:"index" json:"-"`                      // current bearer token, rotated on login
	ExpireAt  time.Time `json:"expire_at"`                           // token expiry
	Amount    uint64    `gorm:"default:0" json:"amount"`             // lamport balance
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
