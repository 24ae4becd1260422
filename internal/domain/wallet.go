package domain

import (
	"time"

	"github.com/shopspring/decimal" // Fixed-point money arithmetic
)

// Wallet Model
type Wallet struct {
	ID           uint            `gorm:"primaryKey" json:"id"`                                    // Primary key
	UserID       uint            `gorm:"uniqueIndex;not null" json:"user_id"`                     // Foreign key to User
	Balance      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`    // Wallet balance, never negative
	Description  string          `gorm:"size:255" json:"description"`                             // Free text set by the last deposit/withdrawal
	LastUpdated  time.Time       `gorm:"autoUpdateTime" json:"last_updated"`                      // Last balance change
	Transactions []Transaction   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"` // One-to-many relationship with Transaction
}
