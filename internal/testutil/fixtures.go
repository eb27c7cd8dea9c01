package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgetly/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a unique owner id as the identity provider would issue it.
func NewUserID() string {
	return fmt.Sprintf("user-%d", nextID())
}

// CreateTestAccount creates an account with a zero budget.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBudget(t, db, userID, 0)
}

// CreateTestAccountWithBudget creates an account with the given budget in
// display units.
func CreateTestAccountWithBudget(t *testing.T, db *gorm.DB, userID string, budget int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID: userID,
		Name:   fmt.Sprintf("Test Account %d", nextID()),
		Budget: &budget,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category for the given user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a default transaction with the given amount
// in miliunits, dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID string, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOnDate(t, db, accountID, amount, time.Now().UTC())
}

// CreateTestTransactionOnDate creates a default transaction on the given date.
func CreateTestTransactionOnDate(t *testing.T, db *gorm.DB, accountID string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID: accountID,
		Amount:    amount,
		Payee:     fmt.Sprintf("Payee %d", nextID()),
		Date:      date,
		Type:      models.TransactionTypeDefault,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestScheduledTransaction creates a schedule due at the given date.
// A nil interval makes it fire once.
func CreateTestScheduledTransaction(t *testing.T, db *gorm.DB, userID, accountID string, amount int64, due time.Time, interval *int) *models.ScheduledTransaction {
	t.Helper()

	sched := &models.ScheduledTransaction{
		UserID:         userID,
		AccountID:      accountID,
		Amount:         amount,
		Payee:          fmt.Sprintf("Scheduled Payee %d", nextID()),
		ScheduledDate:  due.UTC(),
		RepeatInterval: interval,
	}
	if err := db.Create(sched).Error; err != nil {
		t.Fatalf("failed to create test scheduled transaction: %v", err)
	}
	return sched
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }
