package domain

import "time"

// User Model
type User struct {
	ID           uint          `gorm:"primaryKey" json:"id"`                                    // Primary key
	Username     string        `gorm:"size:50;uniqueIndex;not null" json:"username"`            // Unique username
	Email        string        `gorm:"size:100;uniqueIndex;not null" json:"email"`              // Unique email
	PasswordHash string        `gorm:"column:password;size:255;not null" json:"-"`              // bcrypt hash, never serialized
	PhoneNumber  *string       `gorm:"size:15" json:"phone_number"`                             // Optional phone number
	CreatedAt    time.Time     `json:"created_at"`                                              // Creation timestamp
	UpdatedAt    time.Time     `json:"updated_at"`                                              // Last profile update
	Wallet       *Wallet       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"` // One-to-one relationship with Wallet
	Transactions []Transaction `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"` // One-to-many relationship with Transaction
}
