// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-ledger/bank-api/internal/domain"
	"github.com/go-ledger/bank-api/pkg/dbpkg"
	"github.com/go-ledger/bank-api/pkg/errorspkg"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewRepoPGS returns user RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createUserQuery = `
INSERT INTO users (
    name,
    email,
    hashed_password
) VALUES (
    $1, $2, $3
) RETURNING id, name, email, hashed_password, created_at
`

const createProfileQuery = `
INSERT INTO profiles (
    user_id,
    age,
    bio,
    identity_type,
    identity_number,
    address
) VALUES (
    $1, $2, NULLIF($3, ''), $4, $5, $6
) RETURNING id, user_id, age, COALESCE(bio, ''), identity_type, identity_number, address
`

// Create creates the user together with its profile and then returns it.
//
// Both rows are inserted within a single db transaction so that a user
// never exists without a profile.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	var u domain.User

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return u, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	row := tx.QueryRowContext(ctx, createUserQuery, arg.Name, arg.Email, arg.HashedPassword)

	err = row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.HashedPassword,
		&u.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "users_email_key" {
				return u, domain.ErrEmailAlreadyExists
			}
		}

		return u, errorspkg.ErrInternal
	}

	row = tx.QueryRowContext(ctx, createProfileQuery,
		u.ID,
		arg.Profile.Age,
		arg.Profile.Bio,
		arg.Profile.IdentityType,
		arg.Profile.IdentityNumber,
		arg.Profile.Address,
	)

	err = row.Scan(
		&u.Profile.ID,
		&u.Profile.UserID,
		&u.Profile.Age,
		&u.Profile.Bio,
		&u.Profile.IdentityType,
		&u.Profile.IdentityNumber,
		&u.Profile.Address,
	)

	if err != nil {
		l.Error().Err(err).Send()
		return u, errorspkg.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const listUsersQuery = `
SELECT
	u.id, u.name, u.email, u.hashed_password, u.created_at,
	p.id, p.user_id, p.age, COALESCE(p.bio, ''), p.identity_type, p.identity_number, p.address
FROM users u
JOIN profiles p ON p.user_id = u.id
ORDER BY u.id
`

// List returns all users with their profiles in creation order.
func (r *RepoPGS) List(ctx context.Context) ([]domain.User, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.User{}

	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.HashedPassword,
			&u.CreatedAt,
			&u.Profile.ID,
			&u.Profile.UserID,
			&u.Profile.Age,
			&u.Profile.Bio,
			&u.Profile.IdentityType,
			&u.Profile.IdentityNumber,
			&u.Profile.Address,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, u)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
