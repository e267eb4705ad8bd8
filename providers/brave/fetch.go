package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"idea-hand/config"
	"idea-hand/models"
	"idea-hand/providers"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Fetcher implementiert das SearchProvider-Interface für Brave Web Search.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Brave-Search-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "brave"
}

// Search führt die Web-Suche aus und liefert bis zu count Treffer.
// Null Ergebnisse sind kein Fehler; ein Nicht-2xx-Status ist fatal.
func (f *Fetcher) Search(ctx context.Context, query string, count int) ([]models.SearchResult, error) {
	log := f.Logger.With(zap.String("query", query))
	log.Info("Starte Web-Suche auf Brave.")

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	searchURL := fmt.Sprintf("%s?%s", f.Config.BraveBaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", f.Config.BraveAPIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: brave search: %v", providers.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: brave search status %d: %s", providers.ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResponse); err != nil {
		return nil, fmt.Errorf("%w: brave search: invalid response body: %v", providers.ErrUpstreamUnavailable, err)
	}

	results := make([]models.SearchResult, 0, count)
	for _, r := range searchResponse.Web.Results {
		if len(results) >= count {
			break
		}
		results = append(results, models.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Description,
		})
	}

	log.Info("Suche auf Brave abgeschlossen", zap.Int("found_results", len(results)))
	return results, nil
}
