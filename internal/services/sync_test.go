package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvilaplana/holdfolio/internal/config"
	"github.com/jvilaplana/holdfolio/internal/logger"
	"github.com/jvilaplana/holdfolio/internal/runinfo"
	"github.com/jvilaplana/holdfolio/internal/store"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.HoldedAPIKey = "test-key"
	cfg.HoldedBaseURL = baseURL
	cfg.DataDir = t.TempDir()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "sync.db")

	return cfg
}

func openTestStore(t *testing.T, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return st
}

// upstream fakes the Holded API: documents and contacts answer, products and
// invoices fail.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/documents", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("key"))
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "doc-1", "name": "Operating company stake", "total": 25000.0, "accountCode": "2050001"},
			{"id": "doc-2", "desc": "Government bond", "amount": 45000.0},
		})
	})
	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		// A bare object rather than an array.
		json.NewEncoder(w).Encode(map[string]any{"id": "contact-1", "name": "Startup Ventures", "desc": "startup equity participation", "subtotal": 5000.0})
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	})
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRun_ToleratesPartialEndpointFailure(t *testing.T) {
	ts := upstream(t)
	cfg := testConfig(t, ts.URL)
	st := openTestStore(t, cfg)

	svc := NewSyncService(cfg, st)
	result, err := svc.Run(nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	assert.Contains(t, result.Message, "3 investments")

	// Only the records of the two surviving endpoints made it through.
	require.Len(t, result.Investments, 3)
	ids := []string{result.Investments[0].ExternalID, result.Investments[1].ExternalID, result.Investments[2].ExternalID}
	assert.ElementsMatch(t, []string{"doc-1", "doc-2", "contact-1"}, ids)

	require.Len(t, result.Endpoints, 4)
	byEndpoint := make(map[string]int)
	failures := 0
	for _, ep := range result.Endpoints {
		byEndpoint[ep.Endpoint] = ep.Records
		if ep.Error != "" {
			failures++
		}
	}
	assert.Equal(t, 2, failures)
	assert.Equal(t, 2, byEndpoint["documents"])
	assert.Equal(t, 1, byEndpoint["contacts"])
}

func TestRun_ClassifiesAndComputesMetrics(t *testing.T) {
	ts := upstream(t)
	cfg := testConfig(t, ts.URL)
	st := openTestStore(t, cfg)

	svc := NewSyncService(cfg, st)
	result, err := svc.Run(nil)
	require.NoError(t, err)

	assert.Equal(t, 75000.0, result.Metrics.TotalInvestments)
	assert.Equal(t, 3, result.Metrics.TotalPositions)

	byID := make(map[string]bool)
	for _, inv := range result.Investments {
		byID[inv.ExternalID] = inv.IsEconomicActivity
	}
	assert.True(t, byID["doc-1"], "operating stake should be economic activity")
	assert.False(t, byID["doc-2"], "government bond should not be economic activity")
	assert.True(t, byID["contact-1"], "startup equity should be economic activity")

	// 25000 + 5000 of 75000.
	assert.Equal(t, 40.0, result.Metrics.EconomicActivityPercentage)
}

func TestRun_PersistsInvestmentSet(t *testing.T) {
	ts := upstream(t)
	cfg := testConfig(t, ts.URL)
	st := openTestStore(t, cfg)

	svc := NewSyncService(cfg, st)
	_, err := svc.Run(nil)
	require.NoError(t, err)

	persisted, err := st.List()
	require.NoError(t, err)
	require.Len(t, persisted, 3)

	// Amount descending.
	assert.Equal(t, "doc-2", persisted[0].ExternalID)
	assert.Equal(t, "doc-1", persisted[1].ExternalID)
	assert.Equal(t, "contact-1", persisted[2].ExternalID)
}

func TestRun_RecordsLastRun(t *testing.T) {
	ts := upstream(t)
	cfg := testConfig(t, ts.URL)
	st := openTestStore(t, cfg)

	svc := NewSyncService(cfg, st)
	result, err := svc.Run(nil)
	require.NoError(t, err)

	run, found, err := runinfo.Load(cfg.DataDir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, result.RunID, run.RunID)
	assert.Equal(t, 3, run.Records)
	assert.True(t, run.Success)
}

func TestRun_MissingAPIKeyFailsBeforeFetching(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(ts.Close)

	cfg := testConfig(t, ts.URL)
	cfg.HoldedAPIKey = ""
	st := openTestStore(t, cfg)

	svc := NewSyncService(cfg, st)
	_, err := svc.Run(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOLDED_API_KEY")
	assert.False(t, called, "no network call should happen without an API key")
}

func TestRun_AllEndpointsFailingStillSucceedsWithEmptySet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	cfg := testConfig(t, ts.URL)
	st := openTestStore(t, cfg)

	svc := NewSyncService(cfg, st)
	result, err := svc.Run(nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Investments)
	assert.Equal(t, 0.0, result.Metrics.TotalInvestments)
}

func TestRun_ReportsProgressStages(t *testing.T) {
	ts := upstream(t)
	cfg := testConfig(t, ts.URL)
	st := openTestStore(t, cfg)

	var stages []Stage
	svc := NewSyncService(cfg, st)
	_, err := svc.Run(func(stage Stage, detail string) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)

	assert.Contains(t, stages, StageFetch)
	assert.Contains(t, stages, StageClassify)
	assert.Contains(t, stages, StagePersist)
	assert.Equal(t, StageComplete, stages[len(stages)-1])
}
