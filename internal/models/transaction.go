package models

import "time"

// TransactionType distinguishes user-entered from system-generated transactions.
type TransactionType string

const (
	TransactionTypeDefault   TransactionType = "default"
	TransactionTypeScheduled TransactionType = "scheduled"
)

// Transaction is a realized movement on an account. Amount is signed and in
// miliunits. Ownership follows the account.
type Transaction struct {
	Base
	Amount     int64           `gorm:"not null" json:"amount"`
	Payee      string          `gorm:"not null" json:"payee"`
	Notes      *string         `json:"notes,omitempty"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	AccountID  string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID *string         `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Type       TransactionType `gorm:"not null;default:'default'" json:"type"`
}
