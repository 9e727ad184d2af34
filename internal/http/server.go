// Package http exposes the use cases as a JSON API.
package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"freela/internal/log"
	"freela/internal/middleware/ratelimit"
	"freela/internal/middleware/security"
	"freela/internal/services"
)

type Server struct {
	http.Server
	svc          *services.Services
	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer registers every route and wraps them with logging, security
// headers and write rate limiting.
func NewServer(addr string, svc *services.Services, logger *log.Logger) *Server {
	s := &Server{
		svc:     svc,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	mux.HandleFunc("PUT /api/events/{id}", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)
	mux.HandleFunc("POST /api/events/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("POST /api/events/{id}/cancel", s.handleCancelEvent)
	mux.HandleFunc("GET /api/events/{id}/summary", s.handleEventSummary)
	mux.HandleFunc("GET /api/events/{id}/report", s.handleEventReport)
	mux.HandleFunc("GET /api/events/{id}/transactions", s.handleListTransactions)

	mux.HandleFunc("POST /api/transactions", s.handleAddTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/summary", s.handleConsolidatedSummary)
	mux.HandleFunc("GET /api/reports/monthly", s.handleMonthlyReport)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)
	mux.HandleFunc("GET /api/backup", s.handleExportBackup)
	mux.HandleFunc("POST /api/backup", s.handleImportBackup)
	mux.HandleFunc("GET /api/export.csv", s.handleExportCSV)

	limited := s.limiter.Middleware(clientKey, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusTooManyRequests, services.Result[struct{}]{Error: "rate limit exceeded"})
	})
	var h http.Handler = mux
	h = limited(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = log.Middleware(logger)(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// clientKey keys the limiter on the peer address. Forwarding headers are
// client-controlled and ignored.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
