package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/models"
	"budgetly/internal/pagination"
)

// transactionService handles transaction-related business logic.
// Transactions carry no owner column; ownership follows their account.
type transactionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db, now: time.Now}
}

// ownedTransactions scopes a transactions query to the given owner.
func ownedTransactions(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", userID)
}

// CreateTransaction records a user-entered transaction on one of the user's accounts.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*models.Transaction, error) {
	input, err := s.validateInput(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		Amount:     input.Amount,
		Payee:      input.Payee,
		Notes:      input.Notes,
		Date:       input.Date,
		AccountID:  input.AccountID,
		CategoryID: input.CategoryID,
		Type:       models.TransactionTypeDefault,
	}

	if err := s.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// validateInput normalizes the input and checks that the referenced account
// and category belong to the user.
func (s *transactionService) validateInput(ctx context.Context, userID string, input TransactionInput) (TransactionInput, error) {
	input.Payee = strings.TrimSpace(input.Payee)
	if input.Payee == "" {
		return input, apperrors.WithMessage(apperrors.ErrInvalidInput, "payee is required")
	}
	if input.AccountID == "" {
		return input, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}

	if input.Date.IsZero() {
		input.Date = s.now()
	}
	input.Date = input.Date.UTC()

	db := s.db.WithContext(ctx)
	if _, err := findOwnedAccount(db, userID, input.AccountID); err != nil {
		return input, err
	}
	if input.CategoryID != nil {
		if *input.CategoryID == "" {
			input.CategoryID = nil
		} else if _, err := findOwnedCategory(db, userID, *input.CategoryID); err != nil {
			return input, err
		}
	}
	return input, nil
}

// ListTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if filter.AccountID != nil {
		if _, err := findOwnedAccount(s.db.WithContext(ctx), userID, *filter.AccountID); err != nil {
			return nil, err
		}
	}

	query := applyTransactionFilters(ownedTransactions(s.db.WithContext(ctx), userID), filter)

	result, err := pagination.Find[models.Transaction](query, page,
		selectTransactionColumns,
		pagination.OrderBy("transactions.date DESC, transactions.id DESC"),
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &result, nil
}

func selectTransactionColumns(db *gorm.DB) *gorm.DB {
	return db.Select("transactions.*")
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.AccountID != nil {
		q = q.Where("transactions.account_id = ?", *f.AccountID)
	}
	if f.FromDate != nil {
		q = q.Where("transactions.date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("transactions.date <= ?", f.ToDate.UTC())
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := ownedTransactions(s.db.WithContext(ctx), userID).
		Select("transactions.*").
		Where("transactions.id = ?", transactionID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces the editable fields of a transaction. The type
// tag is kept.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, input TransactionInput) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	input, err = s.validateInput(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"amount":      input.Amount,
		"payee":       input.Payee,
		"notes":       input.Notes,
		"date":        input.Date,
		"account_id":  input.AccountID,
		"category_id": input.CategoryID,
	}

	db := s.db.WithContext(ctx)
	if err := db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := db.Where("id = ?", transaction.ID).First(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// DeleteTransaction deletes a transaction
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// BulkDeleteTransactions deletes the listed transactions the user owns and
// returns their ids.
func (s *transactionService) BulkDeleteTransactions(ctx context.Context, userID string, ids []string) ([]string, error) {
	deleted := []string{}
	if len(ids) == 0 {
		return deleted, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownedTransactions(tx, userID).
			Where("transactions.id IN ?", ids).
			Order("transactions.date DESC, transactions.id DESC").
			Pluck("transactions.id", &deleted).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(deleted) == 0 {
			return nil
		}
		if err := tx.Where("id IN ?", deleted).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
