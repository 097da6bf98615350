package domain

import (
	"errors"
	"time"
)

var (
	// ErrSameAccountTransfer indicates a transfer where sender and receiver are the same account.
	ErrSameAccountTransfer = errors.New("sender and receiver accounts must be distinct")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates non-positive amount.
	ErrNegativeAmount = errors.New("amount must be positive")
	// ErrInsufficientBalance indicates that the sender account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Transaction holds transfer data between two accounts.
type Transaction struct {
	ID                int64     `json:"id"`
	SenderAccountID   int32     `json:"sender_account_id"`
	ReceiverAccountID int32     `json:"receiver_account_id"`
	Amount            string    `json:"amount"` // always positive
	CreatedAt         time.Time `json:"created_at"`
}

// CreateTransactionParams is the input data for the transfer transaction.
type CreateTransactionParams struct {
	SenderAccountID   int32  `json:"sender_account_id"`
	ReceiverAccountID int32  `json:"receiver_account_id"`
	Amount            string `json:"amount"`
}

// TransactionWithAccounts is a transaction with resolved sender and receiver summaries.
type TransactionWithAccounts struct {
	Transaction
	Sender   AccountSummary `json:"sender"`
	Receiver AccountSummary `json:"receiver"`
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	Transaction     Transaction `json:"transaction"`
	SenderAccount   Account     `json:"sender_account"`
	ReceiverAccount Account     `json:"receiver_account"`
}
