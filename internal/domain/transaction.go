package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a balance-affecting event
type TransactionType string

// Transaction types
const (
	Credit      TransactionType = "CREDIT"
	Debit       TransactionType = "DEBIT"
	TransferIn  TransactionType = "TRANSFER_IN"
	TransferOut TransactionType = "TRANSFER_OUT"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	switch t {
	case Credit, Debit, TransferIn, TransferOut:
		return true
	}
	return false
}

// Inflow reports whether the type adds to the wallet balance
func (t TransactionType) Inflow() bool {
	return t == Credit || t == TransferIn
}

// Transaction Model. Rows are append-only.
type Transaction struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`                                             // Primary key
	UserID                 uint            `gorm:"index;not null" json:"user_id"`                                    // Foreign key to User
	WalletID               uint            `gorm:"index;not null" json:"wallet_id"`                                  // Foreign key to Wallet
	Type                   TransactionType `gorm:"column:transaction_type;size:20;not null" json:"transaction_type"` // CREDIT, DEBIT, TRANSFER_IN, TRANSFER_OUT
	Amount                 decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`                        // Always positive
	Description            string          `gorm:"size:255" json:"description"`                                      // Free text
	ReferenceTransactionID *string         `gorm:"size:36;index" json:"reference_transaction_id"`                    // Transfer id for paired transfer legs
	RecipientUserID        *uint           `gorm:"index" json:"recipient_user_id"`                                   // Transfer recipient
	CreatedAt              time.Time       `json:"created_at"`                                                       // Creation timestamp
}

// SignedAmount returns the amount with the sign of its effect on the balance
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type.Inflow() {
		return t.Amount
	}
	return t.Amount.Neg()
}
