// Package transactionrepo manages repository layer of the transaction ledger.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-ledger/bank-api/internal/accountrepo"
	"github.com/go-ledger/bank-api/internal/domain"
	"github.com/go-ledger/bank-api/pkg/dbpkg"
	"github.com/go-ledger/bank-api/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transaction RepoPGS bound to an ongoing db transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transaction RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    transactions (sender_account_id, receiver_account_id, amount)
VALUES
    ($1, $2, $3)
RETURNING id, sender_account_id, receiver_account_id, amount, created_at
`

// Create appends the transaction record and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.SenderAccountID, arg.ReceiverAccountID, arg.Amount)

	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.SenderAccountID,
		&t.ReceiverAccountID,
		&t.Amount,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_sender_account_id_fkey", "transactions_receiver_account_id_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_amount_check":
				return t, domain.ErrInvalidAmount
			case "transactions_distinct_accounts_check":
				return t, domain.ErrSameAccountTransfer
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	t.id, t.sender_account_id, t.receiver_account_id, t.amount, t.created_at,
	s.id, s.user_id, s.name, s.balance,
	r.id, r.user_id, r.name, r.balance
FROM transactions t
JOIN accounts s ON s.id = t.sender_account_id
JOIN accounts r ON r.id = t.receiver_account_id
WHERE t.id = $1
`

// Get returns the transaction with the given id with resolved account summaries.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.TransactionWithAccounts, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.TransactionWithAccounts

	err := scanTransactionWithAccounts(row.Scan, &t)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listQuery = `
SELECT
	t.id, t.sender_account_id, t.receiver_account_id, t.amount, t.created_at,
	s.id, s.user_id, s.name, s.balance,
	r.id, r.user_id, r.name, r.balance
FROM transactions t
JOIN accounts s ON s.id = t.sender_account_id
JOIN accounts r ON r.id = t.receiver_account_id
ORDER BY t.id
`

// List returns all transactions in creation order with resolved account summaries.
func (r *RepoPGS) List(ctx context.Context) ([]domain.TransactionWithAccounts, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.TransactionWithAccounts{}

	for rows.Next() {
		var t domain.TransactionWithAccounts
		if err := scanTransactionWithAccounts(rows.Scan, &t); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

func scanTransactionWithAccounts(scan func(...interface{}) error, t *domain.TransactionWithAccounts) error {
	return scan(
		&t.ID,
		&t.SenderAccountID,
		&t.ReceiverAccountID,
		&t.Amount,
		&t.CreatedAt,
		&t.Sender.ID,
		&t.Sender.UserID,
		&t.Sender.Name,
		&t.Sender.Balance,
		&t.Receiver.ID,
		&t.Receiver.UserID,
		&t.Receiver.Name,
		&t.Receiver.Balance,
	)
}

// Transfer moves money between two accounts.
//
// It debits the sender, credits the receiver, and appends the transaction record
// within a single db transaction, so either all three mutations commit or none do.
// The transaction record therefore exists iff both balance changes were applied.
func (r *RepoPGS) Transfer(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)
	accountRepo := accountrepo.NewRepoPGS(tx)

	result.Transaction, err = txRepo.Create(ctx, arg)
	if err != nil {
		l.Error().Err(err).Send()
		return result, err
	}

	var sender, receiver domain.Account
	// To avoid deadlocks execute balance updates in consistent id order
	if arg.SenderAccountID < arg.ReceiverAccountID {
		argAddBalance := addBalanceParams{
			account1ID: arg.SenderAccountID,
			amount1:    "-" + arg.Amount,
			account2ID: arg.ReceiverAccountID,
			amount2:    arg.Amount,
		}

		sender, receiver, err = addBalances(ctx, accountRepo, argAddBalance)
	} else {
		argAddBalance := addBalanceParams{
			account1ID: arg.ReceiverAccountID,
			amount1:    arg.Amount,
			account2ID: arg.SenderAccountID,
			amount2:    "-" + arg.Amount,
		}

		receiver, sender, err = addBalances(ctx, accountRepo, argAddBalance)
	}

	if err != nil {
		l.Error().Err(err).Send()
		return domain.TransferTxResult{}, err
	}

	result.SenderAccount, result.ReceiverAccount = sender, receiver

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.TransferTxResult{}, errorspkg.ErrInternal
	}

	return result, nil
}

type addBalanceParams struct {
	account1ID int32
	amount1    string
	account2ID int32
	amount2    string
}

func addBalances(ctx context.Context, r *accountrepo.RepoPGS, arg addBalanceParams) (domain.Account, domain.Account, error) {
	account1, err := r.AddBalance(ctx, arg.amount1, arg.account1ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	account2, err := r.AddBalance(ctx, arg.amount2, arg.account2ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	return account1, account2, nil
}
