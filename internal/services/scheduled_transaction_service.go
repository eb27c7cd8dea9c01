package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/events"
	"budgetly/internal/logger"
	"budgetly/internal/models"
)

// errScheduleAdvanced reports that another materialization of the same due
// date committed first.
var errScheduleAdvanced = errors.New("schedule already advanced")

// scheduledTransactionService handles schedules and their materialization.
type scheduledTransactionService struct {
	db             *gorm.DB
	publisher      events.Publisher
	rolloverOnList bool
	now            func() time.Time
}

// NewScheduledTransactionService creates a new ScheduledTransactionServicer.
// When rolloverOnList is set, listing a user's schedules first materializes
// the ones that are due. A nil publisher drops events.
func NewScheduledTransactionService(db *gorm.DB, publisher events.Publisher, rolloverOnList bool) ScheduledTransactionServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &scheduledTransactionService{
		db:             db,
		publisher:      publisher,
		rolloverOnList: rolloverOnList,
		now:            time.Now,
	}
}

// CreateScheduledTransaction creates a schedule on one of the user's accounts.
func (s *scheduledTransactionService) CreateScheduledTransaction(ctx context.Context, userID string, input ScheduledTransactionInput) (*models.ScheduledTransaction, error) {
	input.Payee = strings.TrimSpace(input.Payee)
	if input.Payee == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payee is required")
	}
	if input.AccountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if input.ScheduledDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "scheduled date is required")
	}
	if input.RepeatInterval != nil && *input.RepeatInterval <= 0 {
		return nil, apperrors.ErrInvalidRepeatInterval
	}

	db := s.db.WithContext(ctx)
	if _, err := findOwnedAccount(db, userID, input.AccountID); err != nil {
		return nil, err
	}
	if input.CategoryID != nil && *input.CategoryID == "" {
		input.CategoryID = nil
	}
	if input.CategoryID != nil {
		if _, err := findOwnedCategory(db, userID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	sched := &models.ScheduledTransaction{
		UserID:         userID,
		Amount:         input.Amount,
		Payee:          input.Payee,
		Notes:          input.Notes,
		ScheduledDate:  input.ScheduledDate.UTC(),
		RepeatInterval: input.RepeatInterval,
		AccountID:      input.AccountID,
		CategoryID:     input.CategoryID,
	}

	if err := db.Create(sched).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sched, nil
}

// ListScheduledTransactions returns the user's schedules ordered by due date.
func (s *scheduledTransactionService) ListScheduledTransactions(ctx context.Context, userID string) ([]models.ScheduledTransaction, error) {
	if s.rolloverOnList {
		if _, err := s.RolloverDue(ctx, userID, s.now()); err != nil {
			return nil, err
		}
	}

	schedules := []models.ScheduledTransaction{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_date ASC, id ASC").
		Find(&schedules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return schedules, nil
}

// GetScheduledTransaction retrieves a schedule by ID for a specific user
func (s *scheduledTransactionService) GetScheduledTransaction(ctx context.Context, userID, scheduledID string) (*models.ScheduledTransaction, error) {
	var sched models.ScheduledTransaction
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", scheduledID, userID).
		First(&sched).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduledTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sched, nil
}

// DeleteScheduledTransaction deletes a schedule. Transactions it already
// produced are kept.
func (s *scheduledTransactionService) DeleteScheduledTransaction(ctx context.Context, userID, scheduledID string) error {
	sched, err := s.GetScheduledTransaction(ctx, userID, scheduledID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(sched).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RolloverDue materializes every schedule of the user that is due at now.
func (s *scheduledTransactionService) RolloverDue(ctx context.Context, userID string, now time.Time) (*RolloverResult, error) {
	return s.rollover(ctx, now, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

// RolloverAllDue materializes every due schedule of every user.
func (s *scheduledTransactionService) RolloverAllDue(ctx context.Context, now time.Time) (*RolloverResult, error) {
	return s.rollover(ctx, now, nil)
}

// rollover scans the due schedules, optionally narrowed by scope, and
// materializes each one independently. A failing schedule is logged and
// counted; the rest of the batch still runs.
func (s *scheduledTransactionService) rollover(ctx context.Context, now time.Time, scope func(*gorm.DB) *gorm.DB) (*RolloverResult, error) {
	now = now.UTC()

	q := s.db.WithContext(ctx).
		Where("completed_at IS NULL AND scheduled_date <= ?", now)
	if scope != nil {
		q = q.Scopes(scope)
	}

	var due []models.ScheduledTransaction
	if err := q.Order("scheduled_date ASC, id ASC").Find(&due).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &RolloverResult{}
	log := logger.Get()

	for i := range due {
		if err := ctx.Err(); err != nil {
			return result, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		sched := &due[i]
		realized, err := s.materialize(ctx, sched, now)
		switch {
		case errors.Is(err, errScheduleAdvanced):
			result.Skipped++
			log.Infow("scheduled transaction already materialized",
				"scheduled_transaction_id", sched.ID,
				"scheduled_date", sched.ScheduledDate,
			)
			continue
		case err != nil:
			result.Failed++
			log.Errorw("failed to materialize scheduled transaction",
				"error", err,
				"scheduled_transaction_id", sched.ID,
				"account_id", sched.AccountID,
				"user_id", sched.UserID,
			)
			continue
		}

		result.Processed++
		s.publish(ctx, sched, realized)
	}

	if len(due) > 0 {
		log.Infow("rollover complete",
			"due", len(due),
			"processed", result.Processed,
			"failed", result.Failed,
			"skipped", result.Skipped,
		)
	}
	return result, nil
}

// materialize inserts the realized transaction and advances the schedule in
// one database transaction. The advance only applies while the schedule
// still carries the due date that was read, so overlapping runs produce a
// single realized transaction per due date.
func (s *scheduledTransactionService) materialize(ctx context.Context, sched *models.ScheduledTransaction, now time.Time) (*models.Transaction, error) {
	realized := sched.Realize()

	updates := map[string]interface{}{}
	if sched.Recurring() {
		updates["scheduled_date"] = sched.NextDueDate()
	} else {
		updates["completed_at"] = now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedAccount(tx, sched.UserID, sched.AccountID); err != nil {
			return err
		}

		if err := tx.Create(realized).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		res := tx.Model(&models.ScheduledTransaction{}).
			Where("id = ? AND scheduled_date = ? AND completed_at IS NULL", sched.ID, sched.ScheduledDate).
			Updates(updates)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return errScheduleAdvanced
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return realized, nil
}

func (s *scheduledTransactionService) publish(ctx context.Context, sched *models.ScheduledTransaction, realized *models.Transaction) {
	event := events.MaterializedEvent{
		TransactionID:          realized.ID,
		ScheduledTransactionID: sched.ID,
		UserID:                 sched.UserID,
		AccountID:              realized.AccountID,
		Amount:                 realized.Amount,
		Payee:                  realized.Payee,
		Date:                   realized.Date,
	}
	if sched.Recurring() {
		next := sched.NextDueDate()
		event.NextDueDate = &next
	}

	if err := s.publisher.PublishMaterialized(ctx, event); err != nil {
		logger.Get().Warnw("failed to publish materialized transaction",
			"error", err,
			"transaction_id", realized.ID,
			"scheduled_transaction_id", sched.ID,
		)
	}
}
