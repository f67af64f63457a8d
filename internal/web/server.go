package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
	"github.com/dnlwrthstr/custodian-service/internal/services"
)

const apiPrefix = "/api/v1"

// storeHealth is the probe surface used by the db-health endpoint.
type storeHealth interface {
	Ping(ctx context.Context) error
	Name() string
}

// Server exposes the custodian API over HTTP.
type Server struct {
	addr    string
	svc     *services.CustodianService
	store   storeHealth
	logger  *zap.Logger
	handler http.Handler
}

// NewServer creates a new HTTP server instance.
func NewServer(addr string, svc *services.CustodianService, store storeHealth, logger *zap.Logger) *Server {
	s := &Server{
		addr:   addr,
		svc:    svc,
		store:  store,
		logger: logger,
	}
	s.handler = s.withRequestLog(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /db-health", s.handleDBHealth)

	mux.HandleFunc("POST "+apiPrefix+"/custodians", s.handleCreateCustodian)
	mux.HandleFunc("GET "+apiPrefix+"/custodians", s.handleListCustodians)
	mux.HandleFunc("GET "+apiPrefix+"/custodians/{id}", s.handleGetCustodian)
	mux.HandleFunc("PUT "+apiPrefix+"/custodians/{id}", s.handleUpdateCustodian)
	mux.HandleFunc("DELETE "+apiPrefix+"/custodians/{id}", s.handleDeleteCustodian)

	mux.HandleFunc("GET "+apiPrefix+"/custodians/{id}/portfolios", s.handleListPortfolios)
	mux.HandleFunc("POST "+apiPrefix+"/custodians/{id}/portfolios", s.handleCreatePortfolio)
	mux.HandleFunc("GET "+apiPrefix+"/custodians/{id}/portfolios/{portfolioID}", s.handleGetPortfolio)
	mux.HandleFunc("PUT "+apiPrefix+"/custodians/{id}/portfolios/{portfolioID}", s.handleUpdatePortfolio)
	mux.HandleFunc("DELETE "+apiPrefix+"/custodians/{id}/portfolios/{portfolioID}", s.handleDeletePortfolio)

	mux.HandleFunc("GET "+apiPrefix+"/custodians/{id}/accounts", s.handleListAccounts)
	mux.HandleFunc("POST "+apiPrefix+"/custodians/{id}/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET "+apiPrefix+"/custodians/{id}/accounts/{accountID}", s.handleGetAccount)
	mux.HandleFunc("PUT "+apiPrefix+"/custodians/{id}/accounts/{accountID}", s.handleUpdateAccount)
	mux.HandleFunc("DELETE "+apiPrefix+"/custodians/{id}/accounts/{accountID}", s.handleDeleteAccount)

	mux.HandleFunc("GET "+apiPrefix+"/custodians/{id}/positions", s.handleListPositions)
	mux.HandleFunc("POST "+apiPrefix+"/custodians/{id}/positions", s.handleCreatePosition)
	mux.HandleFunc("GET "+apiPrefix+"/custodians/{id}/positions/{positionID}", s.handleGetPosition)
	mux.HandleFunc("PUT "+apiPrefix+"/custodians/{id}/positions/{positionID}", s.handleUpdatePosition)
	mux.HandleFunc("DELETE "+apiPrefix+"/custodians/{id}/positions/{positionID}", s.handleDeletePosition)

	mux.HandleFunc("GET "+apiPrefix+"/custodians/{id}/transactions", s.handleListTransactions)
	mux.HandleFunc("POST "+apiPrefix+"/custodians/{id}/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET "+apiPrefix+"/custodians/{id}/transactions/{transactionID}", s.handleGetTransaction)
	mux.HandleFunc("PUT "+apiPrefix+"/custodians/{id}/transactions/{transactionID}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE "+apiPrefix+"/custodians/{id}/transactions/{transactionID}", s.handleDeleteTransaction)

	return mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http server listening", zap.String("addr", s.addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Info("request handled",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

// respondServiceError maps domain outcomes to transport status. Store
// internals are never echoed to the client.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundDetail string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		httpError(w, http.StatusNotFound, notFoundDetail)
	case errors.Is(err, domain.ErrInvalidDateRange):
		httpError(w, http.StatusBadRequest, "invalid date filter")
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		httpError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "custodian-service",
	})
}

func (s *Server) handleDBHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("db-health probe failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "disconnected",
			"database": s.store.Name(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "connected",
		"database": s.store.Name(),
	})
}
