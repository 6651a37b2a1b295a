package runinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvilaplana/holdfolio/internal/models"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	run := LastRun{
		RunID:      "run-123",
		StartedAt:  1700000000,
		FinishedAt: 1700000042,
		Success:    true,
		Records:    7,
		Endpoints: []models.EndpointResult{
			{Endpoint: "documents", Records: 7},
			{Endpoint: "contacts", Error: "upstream returned 500"},
		},
		Metrics: models.DashboardMetrics{TotalInvestments: 70000, TotalPositions: 7},
	}

	require.NoError(t, Save(dir, run))

	loaded, found, err := Load(dir)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, run.RunID, loaded.RunID)
	assert.Equal(t, run.Records, loaded.Records)
	assert.Equal(t, run.Endpoints, loaded.Endpoints)
	assert.Equal(t, run.Metrics, loaded.Metrics)
	assert.NotZero(t, loaded.RecordedAt, "Save stamps the record")
}

func TestLoadMissingIsNotAnError(t *testing.T) {
	_, found, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lastrun.json"), []byte("{not json"), 0600))

	_, _, err := Load(dir)
	assert.Error(t, err)
}

func TestGetAppDataDirCreatesExplicitDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	got, err := GetAppDataDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
