// Package transactionservice manages business logic layer of the transaction ledger.
package transactionservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-ledger/bank-api/internal/accountdelivery"
	"github.com/go-ledger/bank-api/internal/domain"
	"github.com/go-ledger/bank-api/internal/events"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Transfer(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransferTxResult, error)
	Get(ctx context.Context, id int64) (domain.TransactionWithAccounts, error)
	List(ctx context.Context) ([]domain.TransactionWithAccounts, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
	publisher      events.Publisher
}

// New returns transaction service struct to manage transaction business logic.
func New(tr Repo, as accountdelivery.Service, pub events.Publisher) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
		publisher:      pub,
	}
}

// validRequest checks the transfer preconditions in documented order:
// distinct accounts, valid amount, existing accounts, sufficient funds.
// It fails fast before any mutation is attempted and returns the parsed amount.
func (s *Service) validRequest(ctx context.Context, arg domain.CreateTransactionParams) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	if arg.SenderAccountID == arg.ReceiverAccountID {
		return decimal.Decimal{}, domain.ErrSameAccountTransfer
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, domain.ErrNegativeAmount
	}

	// Amounts are held in cents; finer precision would silently round.
	if amount.Exponent() < -2 {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	sender, err := s.accountService.Get(ctx, arg.SenderAccountID)
	if err != nil {
		l.Info().Err(err).Send()
		return decimal.Decimal{}, err
	}

	if _, err := s.accountService.Get(ctx, arg.ReceiverAccountID); err != nil {
		l.Info().Err(err).Send()
		return decimal.Decimal{}, err
	}

	senderBalance, err := decimal.NewFromString(sender.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return decimal.Decimal{}, err
	}

	if senderBalance.LessThan(amount) {
		return decimal.Decimal{}, domain.ErrInsufficientBalance
	}

	return amount, nil
}

// Transfer checks if the transfer request is valid and then executes the transfer.
//
// The balance check above is advisory only: the authoritative rejection of a
// concurrent overdraft happens inside the repo transaction, where the loser of
// the race observes the updated balance and fails with ErrInsufficientBalance.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	amount, err := s.validRequest(ctx, arg)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	// The repo negates the amount textually for the debit, so forward the
	// canonical form rather than the raw request string.
	arg.Amount = amount.String()

	result, err := s.repo.Transfer(ctx, arg)
	if err != nil {
		return result, err
	}

	event := events.TransactionCompleted{
		TransactionID:     result.Transaction.ID,
		SenderAccountID:   result.Transaction.SenderAccountID,
		ReceiverAccountID: result.Transaction.ReceiverAccountID,
		Amount:            result.Transaction.Amount,
		OccurredAt:        result.Transaction.CreatedAt,
	}

	// Best effort: the transfer is already committed.
	if err := s.publisher.Publish(ctx, event); err != nil {
		l.Error().Err(err).Int64("transaction_id", event.TransactionID).Msg("publish transaction completed")
	}

	return result, nil
}

// Get returns the transaction with the given id with resolved account summaries.
func (s *Service) Get(ctx context.Context, id int64) (domain.TransactionWithAccounts, error) {
	transaction, err := s.repo.Get(ctx, id)
	if err != nil {
		return transaction, err
	}

	return transaction, nil
}

// List returns all transactions in creation order with resolved account summaries.
func (s *Service) List(ctx context.Context) ([]domain.TransactionWithAccounts, error) {
	transactions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
