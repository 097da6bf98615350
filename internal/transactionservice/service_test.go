package transactionservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-ledger/bank-api/internal/accountdelivery"
	"github.com/go-ledger/bank-api/internal/domain"
	"github.com/go-ledger/bank-api/internal/events"
	"github.com/go-ledger/bank-api/pkg/errorspkg"
	"github.com/go-ledger/bank-api/pkg/randompkg"
)

func testAccount(id, userID int32, balance string) domain.Account {
	return domain.Account{
		ID:        id,
		UserID:    userID,
		Name:      randompkg.Name(),
		Balance:   balance,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

type recordingPublisher struct {
	published []events.TransactionCompleted
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.TransactionCompleted) error {
	p.published = append(p.published, event)
	return p.err
}

func (p *recordingPublisher) Close() error {
	return nil
}

func TestTransfer(t *testing.T) {
	sender := testAccount(1, 1, "1000")
	receiver := testAccount(2, 2, "500")
	amount := "100.50"

	okResult := domain.TransferTxResult{
		Transaction: domain.Transaction{
			ID:                1,
			SenderAccountID:   sender.ID,
			ReceiverAccountID: receiver.ID,
			Amount:            amount,
			CreatedAt:         time.Now().Truncate(time.Second).UTC(),
		},
		SenderAccount:   testAccount(sender.ID, sender.UserID, "899.50"),
		ReceiverAccount: testAccount(receiver.ID, receiver.UserID, "600.50"),
	}

	testCases := []struct {
		name          string
		arg           domain.CreateTransactionParams
		buildStubs    func(repo *MockRepo, accountService *accountdelivery.MockService)
		checkResponse func(t *testing.T, res domain.TransferTxResult, err error)
	}{
		{
			name: "SameAccount",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: sender.ID,
				Amount:            "50",
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrSameAccountTransfer)
			},
		},
		{
			name: "InvalidAmount",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: receiver.ID,
				Amount:            "!@#$",
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name: "NegativeAmount",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: receiver.ID,
				Amount:            "-100",
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name: "ZeroAmount",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: receiver.ID,
				Amount:            "0",
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name: "SubCentAmount",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: receiver.ID,
				Amount:            "10.505",
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name: "SenderNotFound",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   999999,
				ReceiverAccountID: receiver.ID,
				Amount:            amount,
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(int32(999999))).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
			},
		},
		{
			name: "InsufficientBalance",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: receiver.ID,
				Amount:            "10000",
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			},
		},
		{
			// Account existence is checked before funds, so a missing receiver
			// wins over an underfunded sender.
			name: "MissingReceiverUnderfundedSender",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: 999999,
				Amount:            "10000",
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(int32(999999))).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
			},
		},
		{
			name: "ReceiverNotFound",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: 999999,
				Amount:            amount,
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(int32(999999))).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
			},
		},
		{
			name: "ConcurrentOverdraftLoser",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: receiver.ID,
				Amount:            "600",
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				// The advisory check passed but another transfer drained the
				// account before the db transaction ran.
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, domain.ErrInsufficientBalance)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			},
		},
		{
			name: "RepoInternalError",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: receiver.ID,
				Amount:            amount,
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, errorspkg.ErrInternal)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
		{
			// A leading plus sign parses fine but would corrupt the textual
			// debit negation, so the canonical form must reach the repo.
			name: "LeadingPlusAmount",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: receiver.ID,
				Amount:            "+5",
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Eq(domain.CreateTransactionParams{
					SenderAccountID:   sender.ID,
					ReceiverAccountID: receiver.ID,
					Amount:            "5",
				})).
					Times(1).
					Return(okResult, nil)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, okResult, res)
			},
		},
		{
			name: "OK",
			arg: domain.CreateTransactionParams{
				SenderAccountID:   sender.ID,
				ReceiverAccountID: receiver.ID,
				Amount:            amount,
			},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				// 100.50 travels to the repo in canonical decimal form.
				repo.EXPECT().Transfer(gomock.Any(), gomock.Eq(domain.CreateTransactionParams{
					SenderAccountID:   sender.ID,
					ReceiverAccountID: receiver.ID,
					Amount:            "100.5",
				})).
					Times(1).
					Return(okResult, nil)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, okResult, res)

				// Conservation: the combined balance is unchanged by the transfer.
				sumBefore := decimal.RequireFromString(sender.Balance).
					Add(decimal.RequireFromString(receiver.Balance))
				sumAfter := decimal.RequireFromString(res.SenderAccount.Balance).
					Add(decimal.RequireFromString(res.ReceiverAccount.Balance))
				require.True(t, sumBefore.Equal(sumAfter))
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accountService := accountdelivery.NewMockService(ctrl)
			tc.buildStubs(repo, accountService)

			service := New(repo, accountService, events.NopPublisher{})

			res, err := service.Transfer(context.Background(), tc.arg)
			tc.checkResponse(t, res, err)
		})
	}
}

func TestTransferPublishesEvent(t *testing.T) {
	sender := testAccount(1, 1, "1000")
	receiver := testAccount(2, 2, "500")

	result := domain.TransferTxResult{
		Transaction: domain.Transaction{
			ID:                7,
			SenderAccountID:   sender.ID,
			ReceiverAccountID: receiver.ID,
			Amount:            "100",
			CreatedAt:         time.Now().Truncate(time.Second).UTC(),
		},
		SenderAccount:   testAccount(sender.ID, sender.UserID, "900"),
		ReceiverAccount: testAccount(receiver.ID, receiver.UserID, "600"),
	}

	arg := domain.CreateTransactionParams{
		SenderAccountID:   sender.ID,
		ReceiverAccountID: receiver.ID,
		Amount:            "100",
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	accountService := accountdelivery.NewMockService(ctrl)

	accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).Return(sender, nil)
	accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).Return(receiver, nil)
	repo.EXPECT().Transfer(gomock.Any(), gomock.Eq(arg)).Return(result, nil)

	publisher := &recordingPublisher{}
	service := New(repo, accountService, publisher)

	res, err := service.Transfer(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, result, res)

	require.Len(t, publisher.published, 1)
	require.Equal(t, events.TransactionCompleted{
		TransactionID:     result.Transaction.ID,
		SenderAccountID:   sender.ID,
		ReceiverAccountID: receiver.ID,
		Amount:            "100",
		OccurredAt:        result.Transaction.CreatedAt,
	}, publisher.published[0])
}

func TestTransferIgnoresPublishError(t *testing.T) {
	sender := testAccount(1, 1, "1000")
	receiver := testAccount(2, 2, "500")

	result := domain.TransferTxResult{
		Transaction: domain.Transaction{
			ID:                8,
			SenderAccountID:   sender.ID,
			ReceiverAccountID: receiver.ID,
			Amount:            "100",
		},
		SenderAccount:   testAccount(sender.ID, sender.UserID, "900"),
		ReceiverAccount: testAccount(receiver.ID, receiver.UserID, "600"),
	}

	arg := domain.CreateTransactionParams{
		SenderAccountID:   sender.ID,
		ReceiverAccountID: receiver.ID,
		Amount:            "100",
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	accountService := accountdelivery.NewMockService(ctrl)

	accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).Return(sender, nil)
	accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).Return(receiver, nil)
	repo.EXPECT().Transfer(gomock.Any(), gomock.Eq(arg)).Return(result, nil)

	publisher := &recordingPublisher{err: errors.New("broker unavailable")}
	service := New(repo, accountService, publisher)

	// The transfer is committed; a failed publish must not surface to the caller.
	res, err := service.Transfer(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, result, res)
}

func TestGet(t *testing.T) {
	transaction := domain.TransactionWithAccounts{
		Transaction: domain.Transaction{
			ID:                1,
			SenderAccountID:   1,
			ReceiverAccountID: 2,
			Amount:            "100",
			CreatedAt:         time.Now().Truncate(time.Second).UTC(),
		},
		Sender:   domain.AccountSummary{ID: 1, UserID: 1, Name: "main", Balance: "900"},
		Receiver: domain.AccountSummary{ID: 2, UserID: 2, Name: "savings", Balance: "600"},
	}

	testCases := []struct {
		name          string
		id            int64
		buildStubs    func(repo *MockRepo)
		checkResponse func(t *testing.T, res domain.TransactionWithAccounts, err error)
	}{
		{
			name: "OK",
			id:   transaction.ID,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(transaction.ID)).
					Times(1).
					Return(transaction, nil)
			},
			checkResponse: func(t *testing.T, res domain.TransactionWithAccounts, err error) {
				require.NoError(t, err)
				require.Equal(t, transaction, res)
			},
		},
		{
			name: "NotFound",
			id:   999999,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(int64(999999))).
					Times(1).
					Return(domain.TransactionWithAccounts{}, domain.ErrTransactionNotFound)
			},
			checkResponse: func(t *testing.T, res domain.TransactionWithAccounts, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrTransactionNotFound)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo, accountdelivery.NewMockService(ctrl), events.NopPublisher{})

			res, err := service.Get(context.Background(), tc.id)
			tc.checkResponse(t, res, err)
		})
	}
}

func TestList(t *testing.T) {
	transactions := []domain.TransactionWithAccounts{
		{
			Transaction: domain.Transaction{ID: 1, SenderAccountID: 1, ReceiverAccountID: 2, Amount: "100"},
			Sender:      domain.AccountSummary{ID: 1, UserID: 1, Name: "main", Balance: "900"},
			Receiver:    domain.AccountSummary{ID: 2, UserID: 2, Name: "savings", Balance: "600"},
		},
		{
			Transaction: domain.Transaction{ID: 2, SenderAccountID: 2, ReceiverAccountID: 1, Amount: "50"},
			Sender:      domain.AccountSummary{ID: 2, UserID: 2, Name: "savings", Balance: "550"},
			Receiver:    domain.AccountSummary{ID: 1, UserID: 1, Name: "main", Balance: "950"},
		},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	repo.EXPECT().List(gomock.Any()).Times(1).Return(transactions, nil)

	service := New(repo, accountdelivery.NewMockService(ctrl), events.NopPublisher{})

	res, err := service.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, transactions, res)
}
