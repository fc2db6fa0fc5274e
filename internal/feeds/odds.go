// Package feeds holds the HTTP clients for the upstream data feeds the engine
// aggregates over. Each client satisfies a narrow interface so callers and
// tests can substitute fakes.
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

const userAgent = "Mozilla/5.0 (compatible; NovaTitanBot/1.0)"

// OddsClient fetches today's games and bookmaker prices from the live-odds feed.
type OddsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewOddsClient creates a live-odds feed client.
func NewOddsClient(baseURL, apiKey string) *OddsClient {
	return &OddsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// LiveGames fetches the current slate with bookmaker odds.
func (c *OddsClient) LiveGames(ctx context.Context) ([]models.Game, error) {
	url := fmt.Sprintf("%s/v4/sports/upcoming/odds?apiKey=%s", c.baseURL, c.apiKey)

	var games []models.Game
	if err := c.fetch(ctx, url, &games); err != nil {
		return nil, fmt.Errorf("fetching live games: %w", err)
	}
	return games, nil
}

// fetch makes an HTTP GET request and decodes the JSON body into out.
func (c *OddsClient) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
