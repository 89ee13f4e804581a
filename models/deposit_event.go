package models

import "time"

// DepositEvent records a chain deposit. A row with Credited false is a
// pending deposit: seen on the feed but not yet applied to a balance
// (the wallet had no session token at the time).
type DepositEvent struct {
	ID        string    `gorm:"primaryKey" json:"id"` // chain event ID
	Address   string    `gorm:"not null" json:"address"`
	Lamports  uint64    `gorm:"not null" json:"lamports"`
	Credited  bool      `gorm:"not null;default:false" json:"credited"`
	CreatedAt time.Time `json:"created_at"`
}
