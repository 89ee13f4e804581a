package models

import "time"

// Hero mirrors on-chain ownership of a hero asset
type Hero struct {
	ID           string    `gorm:"primaryKey" json:"id"` // chain asset ID
	OwnerAddress string    `gorm:"index;not null" json:"owner_address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
