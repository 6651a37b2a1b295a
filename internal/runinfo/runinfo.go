package runinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jvilaplana/holdfolio/internal/models"
)

// LastRun is the persisted summary of the most recent sync run.
type LastRun struct {
	RunID      string                  `json:"run_id"`
	StartedAt  int64                   `json:"started_at"`
	FinishedAt int64                   `json:"finished_at"`
	Success    bool                    `json:"success"`
	Records    int                     `json:"records"`
	Endpoints  []models.EndpointResult `json:"endpoints"`
	Metrics    models.DashboardMetrics `json:"metrics"`
	RecordedAt int64                   `json:"recorded_at"`
}

// GetAppDataDir returns the application data directory, creating it if
// needed. An explicit dir overrides the default under the user's home.
func GetAppDataDir(dataDir string) (string, error) {
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".holdfolio")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create app data directory: %w", err)
	}

	return dataDir, nil
}

func lastRunPath(dataDir string) (string, error) {
	appDataDir, err := GetAppDataDir(dataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(appDataDir, "lastrun.json"), nil
}

// Save writes the last-run record to the app data dir.
func Save(dataDir string, run LastRun) error {
	filePath, err := lastRunPath(dataDir)
	if err != nil {
		return err
	}

	run.RecordedAt = time.Now().Unix()

	jsonData, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal last-run data: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write last-run file: %w", err)
	}

	return nil
}

// Load reads the last-run record. A missing file is not an error; the bool
// reports whether a record exists.
func Load(dataDir string) (LastRun, bool, error) {
	filePath, err := lastRunPath(dataDir)
	if err != nil {
		return LastRun{}, false, err
	}

	if _, statErr := os.Stat(filePath); os.IsNotExist(statErr) {
		return LastRun{}, false, nil
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return LastRun{}, false, fmt.Errorf("failed to read last-run file: %w", err)
	}

	var run LastRun
	if err := json.Unmarshal(fileData, &run); err != nil {
		return LastRun{}, false, fmt.Errorf("failed to unmarshal last-run data: %w", err)
	}

	return run, true, nil
}
