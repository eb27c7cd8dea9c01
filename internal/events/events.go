// Package events publishes notifications about transactions the scheduler
// materializes, for consumers such as notification or sync workers.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// MaterializedEvent describes one realized transaction created from a schedule.
type MaterializedEvent struct {
	TransactionID          string     `json:"transaction_id"`
	ScheduledTransactionID string     `json:"scheduled_transaction_id"`
	UserID                 string     `json:"user_id"`
	AccountID              string     `json:"account_id"`
	Amount                 int64      `json:"amount"`
	Payee                  string     `json:"payee"`
	Date                   time.Time  `json:"date"`
	NextDueDate            *time.Time `json:"next_due_date,omitempty"`
}

// ToJSON encodes the event as a message body.
func (e MaterializedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MaterializedEventFromJSON decodes a message body.
func MaterializedEventFromJSON(data []byte) (*MaterializedEvent, error) {
	var e MaterializedEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher delivers materialization events.
type Publisher interface {
	PublishMaterialized(ctx context.Context, event MaterializedEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

// PublishMaterialized implements Publisher.
func (NopPublisher) PublishMaterialized(context.Context, MaterializedEvent) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
