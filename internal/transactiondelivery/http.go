// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-ledger/bank-api/internal/domain"
	"github.com/go-ledger/bank-api/pkg/errorspkg"
	"github.com/go-ledger/bank-api/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Transfer(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransferTxResult, error)
	Get(ctx context.Context, id int64) (domain.TransactionWithAccounts, error)
	List(ctx context.Context) ([]domain.TransactionWithAccounts, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type createRequest struct {
	SenderAccountID   int32  `json:"senderAccountId" binding:"required,min=1"`
	ReceiverAccountID int32  `json:"receiverAccountId" binding:"required,min=1"`
	Amount            string `json:"amount" binding:"required"`
}

type data struct {
	Transaction domain.TransferTxResult `json:"transaction"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Create handles http request to transfer money between two accounts.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	arg := domain.CreateTransactionParams{
		SenderAccountID:   req.SenderAccountID,
		ReceiverAccountID: req.ReceiverAccountID,
		Amount:            req.Amount,
	}

	result, err := h.service.Transfer(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			domain.ErrSameAccountTransfer,
			domain.ErrInvalidAmount,
			domain.ErrNegativeAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))

			return
		case domain.ErrInsufficientBalance:
			gctx.JSON(http.StatusConflict, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{result}})
}

type getRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type dataTransaction struct {
	Transaction domain.TransactionWithAccounts `json:"transaction"`
}

type responseTransaction struct {
	Data dataTransaction `json:"data,omitempty"`
}

// Get handles http request to get a transaction with resolved accounts.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	transaction, err := h.service.Get(ctx, req.ID)
	if err != nil {
		if err == domain.ErrTransactionNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseTransaction{Data: dataTransaction{transaction}})
}

type dataTransactions struct {
	Transactions []domain.TransactionWithAccounts `json:"transactions"`
}

type responseTransactions struct {
	Data dataTransactions `json:"data,omitempty"`
}

// List handles http request to list all transactions with resolved accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	transactions, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseTransactions{Data: dataTransactions{transactions}})
}
