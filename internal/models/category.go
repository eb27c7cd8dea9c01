package models

// Category represents a transaction category
type Category struct {
	Base
	UserID  string  `gorm:"not null;index" json:"user_id"`
	PlaidID *string `json:"plaid_id,omitempty"`
	Name    string  `gorm:"not null" json:"name"`
}
