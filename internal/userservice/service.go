// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-ledger/bank-api/internal/domain"
	"github.com/go-ledger/bank-api/pkg/errorspkg"
	"github.com/go-ledger/bank-api/pkg/passpkg"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New returns user service struct to manage user business logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// NewUserWithoutPassword returns user with removed sensitive data.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Profile:   u.Profile,
	}
}

// Create creates and returns a user with its profile.
func (s *Service) Create(ctx context.Context, name, email, password string, profile domain.CreateProfileParams) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithoutPassword

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		Profile:        profile,
	}

	gotUser, err := s.repo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	result = NewUserWithoutPassword(gotUser)

	return result, nil
}

// List returns all users with their profiles in creation order.
func (s *Service) List(ctx context.Context) ([]domain.UserWithoutPassword, error) {
	gotUsers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]domain.UserWithoutPassword, 0, len(gotUsers))
	for _, u := range gotUsers {
		users = append(users, NewUserWithoutPassword(u))
	}

	return users, nil
}
