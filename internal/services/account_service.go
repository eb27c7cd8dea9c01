package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/logger"
	"budgetly/internal/models"
	"budgetly/internal/money"
)

// maxConcurrentBudgetFetches bounds the per-account amount queries issued by
// one listing request.
const maxConcurrentBudgetFetches = 8

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
	// fetchAmounts loads the stored amounts of one account's transactions.
	fetchAmounts func(ctx context.Context, accountID string) ([]sql.NullString, error)
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	s := &accountService{db: db}
	s.fetchAmounts = s.transactionAmounts
	return s
}

// CreateAccount creates a new account for a user
func (s *accountService) CreateAccount(ctx context.Context, userID string, input AccountInput) (*models.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	budget := int64(0)
	if input.Budget != nil {
		budget = *input.Budget
	}

	account := &models.Account{
		UserID:  userID,
		Name:    name,
		PlaidID: input.PlaidID,
		Budget:  &budget,
	}

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// ListAccountsWithBudget returns the user's accounts with their remaining
// budgets. Each account's transaction amounts are read concurrently and the
// results are placed back in listing order. A failed read for one account
// leaves its remaining budget absent.
func (s *accountService) ListAccountsWithBudget(ctx context.Context, userID string) ([]AccountBudget, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	results := make([]AccountBudget, len(accounts))

	var g errgroup.Group
	g.SetLimit(maxConcurrentBudgetFetches)
	for i := range accounts {
		account := &accounts[i]
		results[i] = AccountBudget{
			ID:     account.ID,
			Name:   account.Name,
			Budget: money.NullIfZero(money.FromUnits(account.BudgetOrZero())),
		}

		g.Go(func() error {
			amounts, err := s.fetchAmounts(ctx, account.ID)
			if err != nil {
				logger.Get().Errorw("failed to load transaction amounts",
					"error", err,
					"account_id", account.ID,
				)
				return nil
			}

			agg := ComputeRemainingBudget(account.Budget, amounts)
			if agg.InvalidAmounts > 0 {
				logger.Get().Warnw("skipped unparseable transaction amounts",
					"event", "data_quality",
					"account_id", account.ID,
					"skipped", agg.InvalidAmounts,
				)
			}
			results[i].RemainingBudget = money.NullIfZero(agg.Remaining)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (s *accountService) transactionAmounts(ctx context.Context, accountID string) ([]sql.NullString, error) {
	var amounts []sql.NullString
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("account_id = ?", accountID).
		Pluck("amount", &amounts).Error
	return amounts, err
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(ctx context.Context, userID, accountID string) (*models.Account, error) {
	return findOwnedAccount(s.db.WithContext(ctx), userID, accountID)
}

func findOwnedAccount(db *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount replaces the account's name and budget. A nil budget is
// stored as 0.
func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID string, input AccountInput) (*models.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":   name,
		"budget": int64(0),
	}
	if input.Budget != nil {
		updates["budget"] = *input.Budget
	}
	if input.PlaidID != nil {
		updates["plaid_id"] = *input.PlaidID
	}

	return s.applyUpdates(ctx, account, updates)
}

// SetBudget changes only the account's budget.
func (s *accountService) SetBudget(ctx context.Context, userID, accountID string, budget int64) (*models.Account, error) {
	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return s.applyUpdates(ctx, account, map[string]interface{}{"budget": budget})
}

func (s *accountService) applyUpdates(ctx context.Context, account *models.Account, updates map[string]interface{}) (*models.Account, error) {
	db := s.db.WithContext(ctx)
	if err := db.Model(account).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	// Reload to get fresh data
	if err := db.Where("id = ?", account.ID).First(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// DeleteAccount removes an account together with its transactions and
// scheduled transactions.
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteAccounts(tx, []string{account.ID})
	})
}

// BulkDeleteAccounts deletes the listed accounts the user owns and returns
// their ids. Unknown or foreign ids are ignored.
func (s *accountService) BulkDeleteAccounts(ctx context.Context, userID string, ids []string) ([]string, error) {
	deleted := []string{}
	if len(ids) == 0 {
		return deleted, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Account{}).
			Where("user_id = ? AND id IN ?", userID, ids).
			Order("created_at ASC, id ASC").
			Pluck("id", &deleted).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(deleted) == 0 {
			return nil
		}
		return deleteAccounts(tx, deleted)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// deleteAccounts removes accounts and everything that references them. The
// postgres schema declares the same ON DELETE CASCADE.
func deleteAccounts(tx *gorm.DB, ids []string) error {
	if err := tx.Where("account_id IN ?", ids).Delete(&models.Transaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := tx.Where("account_id IN ?", ids).Delete(&models.ScheduledTransaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Account{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
