package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a Transfer
type TransferStatus string

// Transfer statuses
const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferFailed    TransferStatus = "failed"
)

// Transfer Model. Owns exactly two Transaction rows linked through ReferenceTransactionID.
type Transfer struct {
	ID                     string          `gorm:"primaryKey;size:36" json:"id"`              // Opaque uuid
	SenderUserID           uint            `gorm:"index;not null" json:"sender_user_id"`      // Debited user
	RecipientUserID        uint            `gorm:"index;not null" json:"recipient_user_id"`   // Credited user
	Amount                 decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"` // Transferred amount
	Description            string          `gorm:"size:255" json:"description"`               // Free text
	Status                 TransferStatus  `gorm:"size:16;not null" json:"status"`            // pending, completed, failed
	SenderTransactionID    *uint           `json:"sender_transaction_id"`                     // TRANSFER_OUT leg
	RecipientTransactionID *uint           `json:"recipient_transaction_id"`                  // TRANSFER_IN leg
	CreatedAt              time.Time       `json:"created_at"`                                // Creation timestamp
}
