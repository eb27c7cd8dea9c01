package services

import (
	"context"
	"time"

	"budgetly/internal/models"
	"budgetly/internal/pagination"
)

// AccountInput carries the user-editable account fields. A nil Budget is
// stored as 0.
type AccountInput struct {
	Name    string
	PlaidID *string
	Budget  *int64
}

// AccountBudget is an account as reported by the budget listing. Zero
// budgets and zero remaining budgets are reported as absent.
type AccountBudget struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Budget          *float64 `json:"budget"`
	RemainingBudget *float64 `json:"remaining_budget"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(ctx context.Context, userID string, input AccountInput) (*models.Account, error)
	ListAccountsWithBudget(ctx context.Context, userID string) ([]AccountBudget, error)
	GetAccountByID(ctx context.Context, userID, accountID string) (*models.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID string, input AccountInput) (*models.Account, error)
	SetBudget(ctx context.Context, userID, accountID string, budget int64) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error
	BulkDeleteAccounts(ctx context.Context, userID string, ids []string) ([]string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID, name string, plaidID *string) (*models.Category, error)
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	BulkDeleteCategories(ctx context.Context, userID string, ids []string) ([]string, error)
}

// TransactionInput carries the fields of a user-entered transaction.
// Amount is in miliunits.
type TransactionInput struct {
	Amount     int64
	Payee      string
	Notes      *string
	Date       time.Time
	AccountID  string
	CategoryID *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	AccountID *string
	FromDate  *time.Time
	ToDate    *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	BulkDeleteTransactions(ctx context.Context, userID string, ids []string) ([]string, error)
}

// ScheduledTransactionInput carries the fields of a new schedule. Amount is
// in miliunits; RepeatInterval is in days and must be positive when set.
type ScheduledTransactionInput struct {
	Amount         int64
	Payee          string
	Notes          *string
	ScheduledDate  time.Time
	RepeatInterval *int
	AccountID      string
	CategoryID     *string
}

// RolloverResult summarizes one materialization pass.
type RolloverResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// ScheduledTransactionServicer defines the contract for scheduled transactions
// and their materialization into realized transactions.
type ScheduledTransactionServicer interface {
	CreateScheduledTransaction(ctx context.Context, userID string, input ScheduledTransactionInput) (*models.ScheduledTransaction, error)
	ListScheduledTransactions(ctx context.Context, userID string) ([]models.ScheduledTransaction, error)
	GetScheduledTransaction(ctx context.Context, userID, scheduledID string) (*models.ScheduledTransaction, error)
	DeleteScheduledTransaction(ctx context.Context, userID, scheduledID string) error
	RolloverDue(ctx context.Context, userID string, now time.Time) (*RolloverResult, error)
	RolloverAllDue(ctx context.Context, now time.Time) (*RolloverResult, error)
}

// ChatMessage is one turn of a chat conversation. Role is "user" or "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatServicer answers questions about the owner's finances.
type ChatServicer interface {
	Reply(ctx context.Context, userID string, messages []ChatMessage) (string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
