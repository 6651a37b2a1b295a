package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ClassifierMode selects how sync-path records are classified.
type ClassifierMode string

const (
	// ClassifierIndicator classifies deterministically from description
	// text and account codes.
	ClassifierIndicator ClassifierMode = "indicator"
	// ClassifierRandom reproduces the legacy randomized assignment.
	ClassifierRandom ClassifierMode = "random"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     int
	CacheTTL time.Duration

	// Holded API settings
	HoldedAPIKey  string
	HoldedBaseURL string

	// Sync settings
	SyncToken  string
	Classifier ClassifierMode

	// Storage settings
	DatabasePath string
	DataDir      string

	// Backup settings
	BackupDir string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Port:          8090,
		CacheTTL:      30 * time.Second,
		HoldedBaseURL: "https://api.holded.com/api/invoicing/v1",
		Classifier:    ClassifierIndicator,
		DatabasePath:  "holdfolio.db",
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if port := os.Getenv("HOLDFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}

	if apiKey := os.Getenv("HOLDED_API_KEY"); apiKey != "" {
		c.HoldedAPIKey = apiKey
	}

	if baseURL := os.Getenv("HOLDED_BASE_URL"); baseURL != "" {
		c.HoldedBaseURL = baseURL
	}

	if token := os.Getenv("HOLDFOLIO_SYNC_TOKEN"); token != "" {
		c.SyncToken = token
	}

	if mode := os.Getenv("HOLDFOLIO_CLASSIFIER"); mode != "" {
		c.Classifier = ClassifierMode(mode)
	}

	if dbPath := os.Getenv("HOLDFOLIO_DB_PATH"); dbPath != "" {
		c.DatabasePath = dbPath
	}

	if dataDir := os.Getenv("HOLDFOLIO_DATA_DIR"); dataDir != "" {
		c.DataDir = dataDir
	}

	if backupDir := os.Getenv("HOLDFOLIO_BACKUP_DIR"); backupDir != "" {
		c.BackupDir = backupDir
	}

	if ttl := os.Getenv("HOLDFOLIO_CACHE_TTL"); ttl != "" {
		if t, err := strconv.Atoi(ttl); err == nil {
			c.CacheTTL = time.Duration(t) * time.Second
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1024 and 65535, got: %d", c.Port)
	}

	if c.HoldedBaseURL == "" {
		return fmt.Errorf("holded base URL cannot be empty")
	}

	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.Classifier != ClassifierIndicator && c.Classifier != ClassifierRandom {
		return fmt.Errorf("unknown classifier mode: %q", c.Classifier)
	}

	return nil
}

// ValidateForSync checks the settings a sync run depends on. The API key
// is verified before any network call is made.
func (c *Config) ValidateForSync() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.HoldedAPIKey == "" {
		return fmt.Errorf("HOLDED_API_KEY not found in environment variables")
	}

	return nil
}
