package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrOwnerNotFound indicates that the owner for the account is not found.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrInvalidBalance indicates that the initial balance is not a valid non-negative amount.
	ErrInvalidBalance = errors.New("invalid balance")
)

// Account holds balance data for a user account.
type Account struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"user_id"`
	Name      string    `json:"name"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	UserID  int32  `json:"user_id"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

// AccountSummary is the account data resolved into transaction responses.
type AccountSummary struct {
	ID      int32  `json:"id"`
	UserID  int32  `json:"user_id"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}
