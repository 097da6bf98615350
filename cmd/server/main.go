package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/go-ledger/bank-api/cmd/httpserver"
	"github.com/go-ledger/bank-api/internal/middleware"
	"github.com/go-ledger/bank-api/pkg/configpkg"
	"github.com/go-ledger/bank-api/pkg/dbpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}

	defer func() {
		if err := conn.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close db connection")
		}
	}()

	server, err := httpserver.New(conn, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	defer func() {
		if err := server.Publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close event publisher")
		}
	}()

	logger.Info().Str("address", config.ServerAddress).Msg("starting server")

	if err := http.ListenAndServe(config.ServerAddress, server); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
