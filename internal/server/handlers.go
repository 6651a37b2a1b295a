package server

import (
	"encoding/json"
	"net/http"

	"github.com/jvilaplana/holdfolio/internal/logger"
	"github.com/jvilaplana/holdfolio/internal/metrics"
	"github.com/jvilaplana/holdfolio/internal/models"
	"github.com/jvilaplana/holdfolio/internal/runinfo"
)

const investmentsCacheKey = "investments"

// InvestmentsResponse is the dashboard read payload: the full set ordered by
// amount descending plus the metrics derived from it.
type InvestmentsResponse struct {
	Investments []models.Investment     `json:"investments"`
	Metrics     models.DashboardMetrics `json:"metrics"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, map[string]string{"message": "pong"}, http.StatusOK)
}

// loadInvestments serves reads from a short-lived cache so dashboard
// refreshes don't hammer the store.
func (s *Server) loadInvestments() ([]models.Investment, error) {
	if cached, found := s.cache.Get(investmentsCacheKey); found {
		return cached.([]models.Investment), nil
	}

	investments, err := s.store.List()
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(investmentsCacheKey, investments)
	return investments, nil
}

func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := s.loadInvestments()
	if err != nil {
		logger.Error("Failed to load investments: %v", err)
		sendJSONError(w, "failed to load investments", http.StatusInternalServerError)
		return
	}

	sendJSON(w, InvestmentsResponse{
		Investments: investments,
		Metrics:     metrics.Compute(investments),
	}, http.StatusOK)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	investments, err := s.loadInvestments()
	if err != nil {
		logger.Error("Failed to load investments: %v", err)
		sendJSONError(w, "failed to load investments", http.StatusInternalServerError)
		return
	}

	sendJSON(w, metrics.Compute(investments), http.StatusOK)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	matched, err := s.store.ListByCategory(category)
	if err != nil {
		logger.Error("Failed to load investments: %v", err)
		sendJSONError(w, "failed to load investments", http.StatusInternalServerError)
		return
	}

	sendJSON(w, metrics.Breakdown(category, matched), http.StatusOK)
}

func (s *Server) handleLastRun(w http.ResponseWriter, r *http.Request) {
	run, found, err := runinfo.Load(s.config.DataDir)
	if err != nil {
		logger.Error("Failed to load last-run record: %v", err)
		sendJSONError(w, "failed to load last sync run", http.StatusInternalServerError)
		return
	}

	if !found {
		sendJSONError(w, "no sync run recorded yet", http.StatusNotFound)
		return
	}

	sendJSON(w, run, http.StatusOK)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	result, err := s.sync.Run(nil)
	if err != nil {
		logger.Error("Sync run failed: %v", err)
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.cache.Flush()
	sendJSON(w, result, http.StatusOK)
}

func sendJSON(w http.ResponseWriter, payload any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
}
