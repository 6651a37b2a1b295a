package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jvilaplana/holdfolio/internal/classify"
	"github.com/jvilaplana/holdfolio/internal/config"
	"github.com/jvilaplana/holdfolio/internal/holded"
	"github.com/jvilaplana/holdfolio/internal/logger"
	"github.com/jvilaplana/holdfolio/internal/metrics"
	"github.com/jvilaplana/holdfolio/internal/models"
	"github.com/jvilaplana/holdfolio/internal/runinfo"
	"github.com/jvilaplana/holdfolio/internal/store"
)

// Stage identifies a phase of a sync run, for progress reporting.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageClassify Stage = "classify"
	StagePersist  Stage = "persist"
	StageComplete Stage = "complete"
)

// ProgressFunc receives stage transitions during a run. Used by the TUI
// monitor; nil when nobody is watching.
type ProgressFunc func(stage Stage, detail string)

// SyncService orchestrates one full synchronization: fetch every upstream
// endpoint, normalize and classify the merged records, replace the persisted
// set, and report the computed metrics.
type SyncService struct {
	config     *config.Config
	client     *holded.APIClient
	store      *store.Store
	classifier classify.Classifier

	// Serializes runs: two concurrent syncs racing on the replace would
	// otherwise interleave.
	mu sync.Mutex
}

// NewSyncService creates a sync service wired from the configuration. The
// classifier mode comes from config; the randomized mode exists only for
// compatibility with stores populated by the legacy sync.
func NewSyncService(cfg *config.Config, st *store.Store) *SyncService {
	var classifier classify.Classifier
	if cfg.Classifier == config.ClassifierRandom {
		classifier = classify.NewRandomClassifier(rand.New(rand.NewSource(time.Now().UnixNano())))
	} else {
		classifier = classify.NewIndicatorClassifier()
	}

	return &SyncService{
		config:     cfg,
		client:     holded.NewAPIClient(cfg),
		store:      st,
		classifier: classifier,
	}
}

// NewSyncServiceWithClassifier creates a sync service with an explicit
// classifier.
func NewSyncServiceWithClassifier(cfg *config.Config, st *store.Store, classifier classify.Classifier) *SyncService {
	return &SyncService{
		config:     cfg,
		client:     holded.NewAPIClient(cfg),
		store:      st,
		classifier: classifier,
	}
}

// Run executes one sync run to completion. One endpoint failing does not
// abort the run; a missing API key or a persistence failure does.
func (s *SyncService) Run(progress ProgressFunc) (*models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.config.ValidateForSync(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	startedAt := time.Now()
	logger.Info("Starting Holded sync run %s", runID)

	allRecords, endpointResults := s.fetchAll(progress)
	logger.Info("Total items fetched: %d", len(allRecords))

	report(progress, StageClassify, fmt.Sprintf("Classifying %d records", len(allRecords)))
	investments := s.transform(allRecords)

	report(progress, StagePersist, fmt.Sprintf("Persisting %d investments", len(investments)))
	if err := s.store.ReplaceAll(investments); err != nil {
		logger.Error("Failed to persist investment set: %v", err)
		return nil, fmt.Errorf("failed to persist investment set: %w", err)
	}

	dashboardMetrics := metrics.Compute(investments)

	result := &models.SyncResult{
		Success:     true,
		Message:     fmt.Sprintf("Successfully synced %d investments from Holded", len(investments)),
		RunID:       runID,
		Endpoints:   endpointResults,
		Metrics:     dashboardMetrics,
		Investments: investments,
	}

	lastRun := runinfo.LastRun{
		RunID:      runID,
		StartedAt:  startedAt.Unix(),
		FinishedAt: time.Now().Unix(),
		Success:    true,
		Records:    len(investments),
		Endpoints:  endpointResults,
		Metrics:    dashboardMetrics,
	}
	if err := runinfo.Save(s.config.DataDir, lastRun); err != nil {
		logger.Warn("Failed to record last-run summary: %v", err)
	}

	report(progress, StageComplete, result.Message)
	logger.Info("Sync run %s completed: %d investments, %.2f total", runID, len(investments), dashboardMetrics.TotalInvestments)
	return result, nil
}

// fetchAll pulls every upstream endpoint, tolerating per-endpoint failure.
func (s *SyncService) fetchAll(progress ProgressFunc) ([]models.RawRecord, []models.EndpointResult) {
	var allRecords []models.RawRecord
	results := make([]models.EndpointResult, 0, len(holded.Endpoints))

	for _, endpoint := range holded.Endpoints {
		report(progress, StageFetch, fmt.Sprintf("Fetching %s", endpoint))

		records, err := s.client.FetchEndpoint(endpoint)
		if err != nil {
			logger.Error("Failed to fetch %s: %v", endpoint, err)
			results = append(results, models.EndpointResult{Endpoint: endpoint, Error: err.Error()})
			continue
		}

		allRecords = append(allRecords, records...)
		results = append(results, models.EndpointResult{Endpoint: endpoint, Records: len(records)})
	}

	return allRecords, results
}

// transform runs every raw record through the normalizer and classifier.
func (s *SyncService) transform(records []models.RawRecord) []models.Investment {
	investments := make([]models.Investment, 0, len(records))
	for i, record := range records {
		normalized := classify.Normalize(record, i)
		classification := s.classifier.Classify(normalized)
		investments = append(investments, classify.Assemble(normalized, classification))
	}
	return investments
}

func report(progress ProgressFunc, stage Stage, detail string) {
	if progress != nil {
		progress(stage, detail)
	}
}
