// Package events defines the transaction event publishing contract.
package events

import (
	"context"
	"time"
)

// TransactionCompleted is emitted after a transfer commits.
type TransactionCompleted struct {
	TransactionID     int64     `json:"transaction_id"`
	SenderAccountID   int32     `json:"sender_account_id"`
	ReceiverAccountID int32     `json:"receiver_account_id"`
	Amount            string    `json:"amount"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// Publisher publishes ledger events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event TransactionCompleted) error
	Close() error
}

// NopPublisher discards all events. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(ctx context.Context, event TransactionCompleted) error {
	return nil
}

// Close implements Publisher.
func (NopPublisher) Close() error {
	return nil
}
