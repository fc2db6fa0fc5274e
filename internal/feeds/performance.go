package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

// PerformanceClient fetches recent player stat lines from the performance feed.
type PerformanceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPerformanceClient creates a player-performance feed client.
func NewPerformanceClient(baseURL string) *PerformanceClient {
	return &PerformanceClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// RecentPerformance fetches season and last-5 averages for tracked players.
func (c *PerformanceClient) RecentPerformance(ctx context.Context) ([]models.PlayerPerformance, error) {
	url := fmt.Sprintf("%s/v1/players/recent", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var rows []models.PlayerPerformance
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return rows, nil
}
