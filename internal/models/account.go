package models

// Account represents a financial account with an optional periodic budget.
// Budget is kept in whole display units; transaction amounts are miliunits.
type Account struct {
	Base
	UserID  string  `gorm:"not null;index" json:"user_id"`
	PlaidID *string `json:"plaid_id,omitempty"`
	Name    string  `gorm:"not null" json:"name"`
	Budget  *int64  `gorm:"default:0" json:"budget"`
}

// BudgetOrZero returns the configured budget, treating an absent one as 0.
func (a *Account) BudgetOrZero() int64 {
	if a.Budget == nil {
		return 0
	}
	return *a.Budget
}
