package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"idea-hand/config"
	"idea-hand/models"
	"idea-hand/providers"
)

// DigestService erzeugt das tägliche Markt-Digest: feste Such-Query, eine
// einstufige Completion, ein unveränderlicher DailyInsight-Datensatz.
// Dieselbe Suche→LLM→Persist-Form wie die Analyse, nur ohne Scoring.
type DigestService struct {
	Config     *config.Config
	DB         *gorm.DB
	Logger     *zap.Logger
	Search     providers.SearchProvider
	Completion providers.CompletionProvider
	Sanitizer  *HTMLSanitizer
}

// NewDigestService erstellt eine neue Instanz des DigestService.
func NewDigestService(cfg *config.Config, db *gorm.DB, logger *zap.Logger, search providers.SearchProvider, completion providers.CompletionProvider) *DigestService {
	return &DigestService{
		Config:     cfg,
		DB:         db,
		Logger:     logger,
		Search:     search,
		Completion: completion,
		Sanitizer:  NewHTMLSanitizer(logger),
	}
}

// GenerateDaily erzeugt und persistiert ein neues Digest.
// Jeder Upstream-Fehler ist fatal; es wird keine Zeile geschrieben.
func (d *DigestService) GenerateDaily(ctx context.Context) (*models.DailyInsight, error) {
	log := d.Logger.With(zap.String("query", d.Config.DigestQuery))
	log.Info("Starte Digest-Erzeugung.")

	results, err := d.Search.Search(ctx, d.Config.DigestQuery, d.Config.SearchResultLimit)
	if err != nil {
		log.Error("Digest-Suche fehlgeschlagen", zap.Error(err))
		return nil, err
	}

	prompt := BuildDigestPrompt(results)
	raw, err := d.Completion.Complete(ctx, prompt, d.Config.DigestTemperature)
	if err != nil {
		log.Error("Digest-Completion fehlgeschlagen", zap.Error(err))
		return nil, err
	}

	insight := models.DailyInsight{Content: d.Sanitizer.Sanitize(raw)}
	if err := d.DB.Create(&insight).Error; err != nil {
		log.Error("Konnte Digest nicht persistieren", zap.Error(err))
		return nil, err
	}

	log.Info("Digest erzeugt", zap.Uint("insight_id", insight.ID))
	return &insight, nil
}
