// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-ledger/bank-api/internal/accountdelivery"
	"github.com/go-ledger/bank-api/internal/accountrepo"
	"github.com/go-ledger/bank-api/internal/accountservice"
	"github.com/go-ledger/bank-api/internal/events"
	"github.com/go-ledger/bank-api/internal/events/kafka"
	"github.com/go-ledger/bank-api/internal/middleware"
	"github.com/go-ledger/bank-api/internal/transactiondelivery"
	"github.com/go-ledger/bank-api/internal/transactionrepo"
	"github.com/go-ledger/bank-api/internal/transactionservice"
	"github.com/go-ledger/bank-api/internal/userdelivery"
	"github.com/go-ledger/bank-api/internal/userrepo"
	"github.com/go-ledger/bank-api/internal/userservice"
	"github.com/go-ledger/bank-api/pkg/configpkg"
)

// Server holds db connection, handlers router, event publisher and configuration.
type Server struct {
	DB        *sql.DB
	Engine    *gin.Engine
	Publisher events.Publisher
	Config    configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)

	var publisher events.Publisher = events.NopPublisher{}
	if config.KafkaBroker != "" {
		publisher = kafka.NewPublisher(config.KafkaBroker)
	}

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo)
	transactionService := transactionservice.New(transactionRepo, accountService, publisher)

	userHandler := userdelivery.NewHandler(userService)
	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.GET("/users", userHandler.List)

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.GET("/accounts", accountHandler.List)

	engine.POST("/transactions", transactionHandler.Create)
	engine.GET("/transactions/:id", transactionHandler.Get)
	engine.GET("/transactions", transactionHandler.List)

	server := &Server{
		DB:        conn,
		Engine:    engine,
		Publisher: publisher,
		Config:    config,
	}

	return server, nil
}
