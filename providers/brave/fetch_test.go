package brave

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"idea-hand/config"
	"idea-hand/providers"
)

func testFetcher(baseURL string) *Fetcher {
	cfg := &config.Config{
		BraveBaseURL: baseURL,
		BraveAPIKey:  "test-token",
	}
	return NewFetcher(cfg, zap.NewNop())
}

func TestSearchParsesAndBoundsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "blockchain b2b", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"web":{"results":[
			{"title":"r1","url":"https://a","description":"d1"},
			{"title":"r2","url":"https://b","description":"d2"},
			{"title":"r3","url":"https://c","description":"d3"},
			{"title":"r4","url":"https://d","description":"d4"},
			{"title":"r5","url":"https://e","description":"d5"},
			{"title":"r6","url":"https://f","description":"d6"},
			{"title":"r7","url":"https://g","description":"d7"}
		]}}`))
	}))
	defer server.Close()

	results, err := testFetcher(server.URL).Search(context.Background(), "blockchain b2b", 5)
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, "r1", results[0].Title)
	assert.Equal(t, "https://a", results[0].URL)
	assert.Equal(t, "d1", results[0].Snippet)
}

func TestSearchZeroResultsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"web":{"results":[]}}`))
	}))
	defer server.Close()

	results, err := testFetcher(server.URL).Search(context.Background(), "obscure query", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testFetcher(server.URL).Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Verbindung schlägt fehl

	_, err := testFetcher(server.URL).Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrUpstreamUnavailable)
}
