//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=server_mocks
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage"
)

type Storage interface {
	GetOrder(ctx context.Context, orderID int64) (*storage.Order, error)
	SearchOrders(ctx context.Context, query, searchType string) ([]storage.OrderSummary, error)
	IssueOrder(ctx context.Context, orderID, employeeID int64) (string, error)
	ReturnOrder(ctx context.Context, orderID int64, reason string) (int64, error)
	AssignCell(ctx context.Context, orderID, cellID int64) error
	FreeCells(ctx context.Context) ([]storage.StorageCell, error)
	Stats(ctx context.Context) (*storage.Stats, error)
	OrderHistory(ctx context.Context, orderID int64) ([]storage.HistoryEntry, error)
	Returns(ctx context.Context, page, limit int) ([]storage.Return, error)
	GetUserByPhone(ctx context.Context, phone string) (*repository.User, error)
	GetUser(ctx context.Context, id int64) (*storage.Client, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

type Server struct {
	storage  Storage
	sessions SessionStore
	audit    *AuditManager
	logger   *zap.Logger
	server   *http.Server
}

func New(st Storage, sessions SessionStore, sink AuditSink, logger *zap.Logger) *Server {
	return &Server{
		storage:  st,
		sessions: sessions,
		audit:    NewAuditManager(2, 5, 500*time.Millisecond, sink, logger),
		logger:   logger,
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.audit.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", zap.String("port", port))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	s.audit.Shutdown(ctx)
	s.logger.Info("http server shutdown completed")
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.Handle("/api/login", s.auditLogMiddleware(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.Use(s.auditLogMiddleware)

	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/orders/search", s.handleSearchOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}/issue", s.handleIssueOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}/return", s.handleReturnOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}/assign_cell", s.handleAssignCell).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}/history", s.handleOrderHistory).Methods(http.MethodGet)
	api.HandleFunc("/cells/free", s.handleFreeCells).Methods(http.MethodGet)
	api.HandleFunc("/returns", s.handleListReturns).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	return router
}
