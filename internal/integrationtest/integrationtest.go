// Package integrationtest provides server and db helpers used in integration tests.
package integrationtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/go-ledger/bank-api/cmd/httpserver"
	"github.com/go-ledger/bank-api/internal/accountrepo"
	"github.com/go-ledger/bank-api/internal/domain"
	"github.com/go-ledger/bank-api/internal/middleware"
	"github.com/go-ledger/bank-api/internal/userrepo"
	"github.com/go-ledger/bank-api/pkg/configpkg"
	"github.com/go-ledger/bank-api/pkg/dbpkg"
	"github.com/go-ledger/bank-api/pkg/passpkg"
	"github.com/go-ledger/bank-api/pkg/randompkg"
)

// SetupServer returns a test server that cleans up the database after each integration test.
func SetupServer(t *testing.T) *httpserver.Server {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		t.Fatalf(`configpkg.Load("../../configs") returned error: %v`, err)
	}

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	db := SetupDB(t, config.DBDriver, config.DBSource)

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(db, logger, config) returned error: %v`, err)
	}

	return server
}

// SetupDB sets up a database connection for testing and then cleans it.
func SetupDB(t *testing.T, driver, source string) *sql.DB {
	t.Helper()

	db, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return db
}

// Flush flushes all db tables without dropping them.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	var tables string

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables
	WHERE table_schema='public' AND table_name <> 'schema_migrations';`

	if err := db.QueryRow(query).Scan(&tables); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	if _, err := db.Exec(`TRUNCATE TABLE ` + tables + " RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SeedUser inserts a random user with a profile.
func SeedUser(t *testing.T, db *sql.DB) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	require.NoError(t, err)

	user, err := userrepo.NewRepoPGS(db).Create(context.Background(), domain.CreateUserParams{
		Name:           randompkg.Name(),
		Email:          randompkg.Email(),
		HashedPassword: hashedPassword,
		Profile: domain.CreateProfileParams{
			Age:            randompkg.IntBetween(18, 80),
			IdentityType:   "passport",
			IdentityNumber: randompkg.String(10),
			Address:        randompkg.String(20),
		},
	})
	require.NoError(t, err)

	return user
}

// SeedAccount inserts an account with the given opening balance for the user.
func SeedAccount(t *testing.T, db *sql.DB, userID int32, balance string) domain.Account {
	t.Helper()

	account, err := accountrepo.NewRepoPGS(db).Create(context.Background(), domain.CreateAccountParams{
		UserID:  userID,
		Name:    randompkg.Name(),
		Balance: balance,
	})
	require.NoError(t, err)

	return account
}
