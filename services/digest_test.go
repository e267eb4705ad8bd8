package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"idea-hand/models"
	"idea-hand/providers"
)

func TestGenerateDailyPersistsInsight(t *testing.T) {
	db := newTestDB(t)
	search := &fakeSearch{results: []models.SearchResult{
		{Title: "Trend 1", URL: "https://a", Snippet: "s1"},
	}}
	completion := &fakeCompletion{text: "<html><body><h2>Digest</h2></body></html>"}
	svc := NewDigestService(testConfig(), db, zap.NewNop(), search, completion)

	insight, err := svc.GenerateDaily(context.Background())
	require.NoError(t, err)
	require.NotNil(t, insight)
	assert.Equal(t, "<html><body><h2>Digest</h2></body></html>", insight.Content)

	// Digest nutzt die niedrigere Temperatur.
	assert.Equal(t, 0.6, completion.lastTemp)
	assert.Contains(t, completion.lastPrompt, "Trend 1")

	var count int64
	require.NoError(t, db.Model(&models.DailyInsight{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerateDailySearchFailureWritesNothing(t *testing.T) {
	db := newTestDB(t)
	search := &fakeSearch{err: fmt.Errorf("%w: brave search status 502", providers.ErrUpstreamUnavailable)}
	completion := &fakeCompletion{text: "unused"}
	svc := NewDigestService(testConfig(), db, zap.NewNop(), search, completion)

	_, err := svc.GenerateDaily(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, completion.calls)

	var count int64
	require.NoError(t, db.Model(&models.DailyInsight{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
