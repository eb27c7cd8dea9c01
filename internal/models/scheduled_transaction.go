package models

import "time"

// ScheduledTransaction is a template that materializes into a Transaction
// each time ScheduledDate passes. RepeatInterval is in days; a schedule
// without one fires once and is then marked completed.
type ScheduledTransaction struct {
	Base
	UserID         string     `gorm:"not null;index" json:"user_id"`
	Amount         int64      `gorm:"not null" json:"amount"`
	Payee          string     `gorm:"not null" json:"payee"`
	Notes          *string    `json:"notes,omitempty"`
	ScheduledDate  time.Time  `gorm:"not null;index" json:"scheduled_date"`
	RepeatInterval *int       `json:"repeat_interval"`
	AccountID      string     `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID     *string    `gorm:"type:uuid;index" json:"category_id,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// IsDue reports whether the schedule should fire at now.
func (s *ScheduledTransaction) IsDue(now time.Time) bool {
	return s.CompletedAt == nil && !s.ScheduledDate.After(now)
}

// Recurring reports whether the schedule has a repeat interval.
func (s *ScheduledTransaction) Recurring() bool {
	return s.RepeatInterval != nil && *s.RepeatInterval > 0
}

// NextDueDate returns the due date after the current one fires: the current
// date plus the repeat interval, truncated to the calendar day in UTC.
func (s *ScheduledTransaction) NextDueDate() time.Time {
	days := 0
	if s.Recurring() {
		days = *s.RepeatInterval
	}
	next := s.ScheduledDate.UTC().AddDate(0, 0, days)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
}

// Realize builds the transaction this schedule produces for its current due date.
func (s *ScheduledTransaction) Realize() *Transaction {
	return &Transaction{
		Amount:     s.Amount,
		Payee:      s.Payee,
		Notes:      s.Notes,
		Date:       s.ScheduledDate,
		AccountID:  s.AccountID,
		CategoryID: s.CategoryID,
		Type:       TransactionTypeScheduled,
	}
}
