package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jvilaplana/holdfolio/internal/config"
	"github.com/jvilaplana/holdfolio/internal/logger"
	"github.com/jvilaplana/holdfolio/internal/services"
	"github.com/jvilaplana/holdfolio/internal/store"
)

// Server exposes the sync trigger and the dashboard read endpoints.
type Server struct {
	config  *config.Config
	store   *store.Store
	sync    *services.SyncService
	cache   *cache.Cache
	limiter *rate.Limiter
}

// NewServer wires the HTTP surface. Read responses are cached for the
// configured staleness window and flushed after every successful sync.
func NewServer(cfg *config.Config, st *store.Store, syncService *services.SyncService) *Server {
	return &Server{
		config:  cfg,
		store:   st,
		sync:    syncService,
		cache:   cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 30),
	}
}

// Handler builds the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/ping", s.handlePing)
	mux.HandleFunc("GET /api/v1/investments", s.handleInvestments)
	mux.HandleFunc("GET /api/v1/metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/v1/categories/{category}", s.handleCategory)
	mux.HandleFunc("GET /api/v1/sync/last", s.handleLastRun)
	mux.Handle("POST /api/v1/sync", s.requireSyncToken(http.HandlerFunc(s.handleSync)))

	return s.enableCORS(s.rateLimit(mux))
}

// ListenAndServe runs the server until it fails or is shut down.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Server starting on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
