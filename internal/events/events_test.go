package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"budgetly/internal/logger"
)

func init() {
	logger.Init("test")
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	deadline bool
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	_, f.deadline = ctx.Deadline()
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() MaterializedEvent {
	next := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)
	return MaterializedEvent{
		TransactionID:          "tx-1",
		ScheduledTransactionID: "sched-1",
		UserID:                 "user-1",
		AccountID:              "acct-1",
		Amount:                 -950000,
		Payee:                  "Landlord",
		Date:                   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		NextDueDate:            &next,
	}
}

func TestAMQPPublisher_PublishMaterialized(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch, exchangeName: "budgetly", queueName: "transactions.materialized"}

	if err := p.PublishMaterialized(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ch.exchange != "budgetly" || ch.key != "transactions.materialized" {
		t.Errorf("unexpected routing %s/%s", ch.exchange, ch.key)
	}
	if ch.msg.DeliveryMode != amqp091.Persistent {
		t.Error("expected persistent delivery")
	}
	if ch.msg.ContentType != "application/json" {
		t.Errorf("unexpected content type %s", ch.msg.ContentType)
	}
	if !ch.deadline {
		t.Error("expected publish to carry a deadline")
	}

	decoded, err := MaterializedEventFromJSON(ch.msg.Body)
	if err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded.TransactionID != "tx-1" || decoded.Amount != -950000 || decoded.NextDueDate == nil {
		t.Errorf("unexpected decoded event %+v", decoded)
	}
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &AMQPPublisher{channel: ch, exchangeName: "x", queueName: "q"}

	if err := p.PublishMaterialized(context.Background(), sampleEvent()); err == nil {
		t.Fatal("expected error")
	}
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ch.closed {
		t.Error("expected channel to be closed")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.PublishMaterialized(context.Background(), sampleEvent()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
