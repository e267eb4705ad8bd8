package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"idea-hand/config"
	"idea-hand/models"
	"idea-hand/providers"
)

// fakeSearch implementiert providers.SearchProvider für Tests.
type fakeSearch struct {
	results []models.SearchResult
	err     error
	calls   int
}

func (f *fakeSearch) Search(ctx context.Context, query string, count int) ([]models.SearchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSearch) Name() string { return "fake-search" }

// fakeCompletion implementiert providers.CompletionProvider für Tests.
type fakeCompletion struct {
	text       string
	err        error
	calls      int
	lastPrompt string
	lastTemp   float64
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastTemp = temperature
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeCompletion) Name() string { return "fake-completion" }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Idea{}, &models.DailyInsight{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		SearchResultLimit:   5,
		AnalysisTemperature: 0.7,
		DigestTemperature:   0.6,
		DigestQuery:         "B2B marketing content trends this week",
	}
}

func newAnalyzer(db *gorm.DB, search providers.SearchProvider, completion providers.CompletionProvider) *AnalyzeService {
	return NewAnalyzeService(testConfig(), db, nil, zap.NewNop(), search, completion)
}

func createIdea(t *testing.T, db *gorm.DB, status string) models.Idea {
	t.Helper()
	idea := models.Idea{
		Title:          "Blockchain for B2B marketing",
		UserID:         "user-1",
		AnalysisStatus: status,
		ProjectStatus:  models.ProjectStatusNew,
	}
	require.NoError(t, db.Create(&idea).Error)
	return idea
}

const completionHTML = `<!DOCTYPE html><html><body><h2>Final Verdict</h2><p><strong style="font-size: 1.2em; color: #FF7A59;">82/100</strong></p></body></html>`

func TestRunHappyPath(t *testing.T) {
	db := newTestDB(t)
	search := &fakeSearch{results: []models.SearchResult{
		{Title: "r1", URL: "https://a", Snippet: "s1"},
		{Title: "r2", URL: "https://b", Snippet: "s2"},
		{Title: "r3", URL: "https://c", Snippet: "s3"},
	}}
	completion := &fakeCompletion{text: completionHTML}
	svc := newAnalyzer(db, search, completion)
	idea := createIdea(t, db, models.AnalysisStatusAnalyzing)

	require.NoError(t, svc.Run(context.Background(), idea.ID))

	var got models.Idea
	require.NoError(t, db.First(&got, idea.ID).Error)
	assert.Equal(t, models.AnalysisStatusCompleted, got.AnalysisStatus)
	require.NotNil(t, got.Score)
	assert.Equal(t, 82, *got.Score)
	require.NotNil(t, got.Analysis)
	assert.Equal(t, completionHTML, *got.Analysis)

	// Der Prompt muss Titel und Suchkontext enthalten.
	assert.Contains(t, completion.lastPrompt, "Blockchain for B2B marketing")
	assert.Contains(t, completion.lastPrompt, "r1")
	assert.Equal(t, 0.7, completion.lastTemp)
}

func TestRunSearchFailureSkipsCompletion(t *testing.T) {
	db := newTestDB(t)
	search := &fakeSearch{err: fmt.Errorf("%w: brave search: timeout", providers.ErrUpstreamUnavailable)}
	completion := &fakeCompletion{text: completionHTML}
	svc := newAnalyzer(db, search, completion)
	idea := createIdea(t, db, models.AnalysisStatusAnalyzing)

	err := svc.Run(context.Background(), idea.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrUpstreamUnavailable)
	// Strikte Reihenfolge: ohne Suchkontext keine Completion.
	assert.Equal(t, 0, completion.calls)

	var got models.Idea
	require.NoError(t, db.First(&got, idea.ID).Error)
	assert.Equal(t, models.AnalysisStatusFailed, got.AnalysisStatus)
	assert.Nil(t, got.Score)
	assert.Nil(t, got.Analysis)
}

func TestRunCompletionFailure(t *testing.T) {
	db := newTestDB(t)
	search := &fakeSearch{results: []models.SearchResult{{Title: "r1", URL: "https://a", Snippet: "s1"}}}
	completion := &fakeCompletion{err: fmt.Errorf("%w: completion status 503: overloaded", providers.ErrUpstreamUnavailable)}
	svc := newAnalyzer(db, search, completion)
	idea := createIdea(t, db, models.AnalysisStatusAnalyzing)

	err := svc.Run(context.Background(), idea.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrUpstreamUnavailable)

	var got models.Idea
	require.NoError(t, db.First(&got, idea.ID).Error)
	assert.Equal(t, models.AnalysisStatusFailed, got.AnalysisStatus)
	assert.Nil(t, got.Score)
	assert.Nil(t, got.Analysis)
}

func TestRunMissingMarkerStillCompletes(t *testing.T) {
	db := newTestDB(t)
	search := &fakeSearch{results: []models.SearchResult{{Title: "r1", URL: "https://a", Snippet: "s1"}}}
	completion := &fakeCompletion{text: "<html><body><p>no marker</p></body></html>"}
	svc := newAnalyzer(db, search, completion)
	idea := createIdea(t, db, models.AnalysisStatusAnalyzing)

	require.NoError(t, svc.Run(context.Background(), idea.ID))

	var got models.Idea
	require.NoError(t, db.First(&got, idea.ID).Error)
	assert.Equal(t, models.AnalysisStatusCompleted, got.AnalysisStatus)
	assert.Nil(t, got.Score)
	require.NotNil(t, got.Analysis)
}

func TestRunNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyzer(db, &fakeSearch{}, &fakeCompletion{})

	err := svc.Run(context.Background(), 4242)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRunRefusesTerminalStates(t *testing.T) {
	db := newTestDB(t)
	search := &fakeSearch{}
	svc := newAnalyzer(db, search, &fakeCompletion{})
	idea := createIdea(t, db, models.AnalysisStatusCompleted)

	err := svc.Run(context.Background(), idea.ID)
	require.Error(t, err)
	assert.Equal(t, 0, search.calls)

	var got models.Idea
	require.NoError(t, db.First(&got, idea.ID).Error)
	assert.Equal(t, models.AnalysisStatusCompleted, got.AnalysisStatus)
}

func TestRunSanitizesArtifact(t *testing.T) {
	db := newTestDB(t)
	dirty := `<html><body><p>fine</p><script>alert(1)</script></body></html>`
	search := &fakeSearch{results: []models.SearchResult{{Title: "r1", URL: "https://a", Snippet: "s1"}}}
	svc := newAnalyzer(db, search, &fakeCompletion{text: dirty})
	idea := createIdea(t, db, models.AnalysisStatusAnalyzing)

	require.NoError(t, svc.Run(context.Background(), idea.ID))

	var got models.Idea
	require.NoError(t, db.First(&got, idea.ID).Error)
	require.NotNil(t, got.Analysis)
	assert.NotContains(t, *got.Analysis, "<script")
	assert.Contains(t, *got.Analysis, "<p>fine</p>")
}

func TestReapStale(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyzer(db, &fakeSearch{}, &fakeCompletion{})

	stale := createIdea(t, db, models.AnalysisStatusAnalyzing)
	fresh := createIdea(t, db, models.AnalysisStatusAnalyzing)

	old := time.Now().Add(-1 * time.Hour)
	require.NoError(t, db.Model(&models.Idea{}).Where("id = ?", stale.ID).UpdateColumn("updated_at", old).Error)

	reaped, err := svc.ReapStale(15 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reaped)

	var gotStale, gotFresh models.Idea
	require.NoError(t, db.First(&gotStale, stale.ID).Error)
	require.NoError(t, db.First(&gotFresh, fresh.ID).Error)
	assert.Equal(t, models.AnalysisStatusFailed, gotStale.AnalysisStatus)
	assert.Equal(t, models.AnalysisStatusAnalyzing, gotFresh.AnalysisStatus)
}
