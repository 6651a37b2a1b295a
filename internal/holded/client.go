package holded

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jvilaplana/holdfolio/internal/config"
	"github.com/jvilaplana/holdfolio/internal/logger"
	"github.com/jvilaplana/holdfolio/internal/models"
)

// Endpoints lists the upstream resources a sync run pulls, in fetch order.
var Endpoints = []string{"documents", "contacts", "products", "invoices"}

// APIClient handles all HTTP communication with the Holded API
type APIClient struct {
	config     *config.Config
	httpClient *http.Client
}

// NewAPIClient creates a new API client with the given configuration
func NewAPIClient(cfg *config.Config) *APIClient {
	return &APIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BuildURL constructs a full URL for the given endpoint
func (c *APIClient) BuildURL(endpoint string) string {
	return fmt.Sprintf("%s/%s", c.config.HoldedBaseURL, endpoint)
}

// FetchEndpoint retrieves one upstream resource and returns its records.
// Responses are either a JSON array of records or a single object; both are
// returned as a flat record list tagged with the source endpoint.
func (c *APIClient) FetchEndpoint(endpoint string) ([]models.RawRecord, error) {
	url := c.BuildURL(endpoint)
	start := time.Now()
	logger.Debug("Starting request to %s", url)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("key", c.config.HoldedAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		logger.Error("Request failed after (%s) %v: %v", url, elapsed, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	logger.Debug("Request to %s completed in %v with status %d", url, elapsed, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Error("%s: HTTP error %d: %s", url, resp.StatusCode, string(bodyBytes))
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	records, err := decodeRecords(body)
	if err != nil {
		logger.Error("%s: Error decoding response: %v", url, err)
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	for i, record := range records {
		// JSON null entries decode to nil maps; keep them as empty records.
		if record == nil {
			record = models.RawRecord{}
			records[i] = record
		}
		record["source_endpoint"] = endpoint
	}

	logger.Info("Fetched %d records from %s", len(records), endpoint)
	return records, nil
}

// decodeRecords accepts an array of objects or a bare object.
func decodeRecords(body []byte) ([]models.RawRecord, error) {
	var list []models.RawRecord
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var single models.RawRecord
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []models.RawRecord{single}, nil
}
