package server

import (
	"net/http"
	"strings"

	"github.com/jvilaplana/holdfolio/internal/logger"
)

// enableCORS answers preflight requests and allows any origin, matching the
// headers the dashboard front end sends.
func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")

		if r.Method == http.MethodOptions {
			logger.Debug("Handling OPTIONS preflight request for %s", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			logger.Warn("Rate limit exceeded: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
			sendJSONError(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSyncToken guards the sync trigger with a static bearer token.
// Dashboard auth itself is delegated to the external provider; only the
// trigger endpoint is protected here.
func (s *Server) requireSyncToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.SyncToken == "" {
			logger.Error("Sync trigger called but HOLDFOLIO_SYNC_TOKEN is not configured")
			sendJSONError(w, "sync trigger not configured", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			sendJSONError(w, "authorization header required", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != s.config.SyncToken {
			logger.Warn("Sync trigger rejected: invalid token from %s", r.RemoteAddr)
			sendJSONError(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
