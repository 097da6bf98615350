// Package userdelivery manages delivery layer of users.
package userdelivery

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

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	Create(ctx context.Context, name, email, password string, profile domain.CreateProfileParams) (domain.UserWithoutPassword, error)
	List(ctx context.Context) ([]domain.UserWithoutPassword, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns user handler.
func NewHandler(us Service) *Handler {
	return &Handler{
		service: us,
	}
}

type profileRequest struct {
	Age            int32  `json:"age" binding:"required,gte=18"`
	Bio            string `json:"bio"`
	IdentityType   string `json:"identityType" binding:"required"`
	IdentityNumber string `json:"identityNumber" binding:"required"`
	Address        string `json:"address" binding:"required"`
}

type createRequest struct {
	Name     string         `json:"name" binding:"required,min=3,max=30"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Profile  profileRequest `json:"profile" binding:"required"`
}

type data struct {
	User domain.UserWithoutPassword `json:"user"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Create handles http request to create a user with its profile.
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

	profile := domain.CreateProfileParams{
		Age:            req.Profile.Age,
		Bio:            req.Profile.Bio,
		IdentityType:   req.Profile.IdentityType,
		IdentityNumber: req.Profile.IdentityNumber,
		Address:        req.Profile.Address,
	}

	createdUser, err := h.service.Create(ctx, req.Name, req.Email, req.Password, profile)
	if err != nil {
		if err == domain.ErrEmailAlreadyExists {
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{createdUser}})
}

type dataUsers struct {
	Users []domain.UserWithoutPassword `json:"users"`
}

type responseUsers struct {
	Data dataUsers `json:"data,omitempty"`
}

// List handles http request to list all users with their profiles.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	users, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseUsers{Data: dataUsers{users}})
}
