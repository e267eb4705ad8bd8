package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"idea-hand/config"
	"idea-hand/models"
	"idea-hand/providers"
	"idea-hand/storage"
)

// AnalyzeService orchestriert die Analyse einer Content-Idee:
// analyzing markieren, Web-Suche, Prompt bauen, Completion holen, Score
// extrahieren und den terminalen Zustand persistieren. Genau ein Versuch pro
// Idee; bei jedem Upstream-Fehler endet die Zeile als "failed".
type AnalyzeService struct {
	Config     *config.Config
	DB         *gorm.DB
	S3Client   *s3.Client
	Logger     *zap.Logger
	Search     providers.SearchProvider
	Completion providers.CompletionProvider
	Sanitizer  *HTMLSanitizer
}

// NewAnalyzeService erstellt eine neue Instanz des AnalyzeService.
func NewAnalyzeService(cfg *config.Config, db *gorm.DB, s3Client *s3.Client, logger *zap.Logger, search providers.SearchProvider, completion providers.CompletionProvider) *AnalyzeService {
	return &AnalyzeService{
		Config:     cfg,
		DB:         db,
		S3Client:   s3Client,
		Logger:     logger,
		Search:     search,
		Completion: completion,
		Sanitizer:  NewHTMLSanitizer(logger),
	}
}

// Run führt die komplette Analyse für eine Idee aus. Gibt
// gorm.ErrRecordNotFound zurück, wenn die Idee nicht existiert, und einen
// Fehler für jeden fatalen Schritt; die Zeile wird dann best-effort auf
// "failed" gesetzt.
func (a *AnalyzeService) Run(ctx context.Context, id uint) error {
	log := a.Logger.With(zap.Uint("idea_id", id))

	var idea models.Idea
	if err := a.DB.First(&idea, id).Error; err != nil {
		log.Error("Idee nicht gefunden", zap.Error(err))
		return err
	}
	// Terminale Zustände sind absorbierend; eine neue Einreichung erzeugt eine
	// neue Idee statt eine alte wiederzubeleben.
	if models.TerminalAnalysisStatus(idea.AnalysisStatus) {
		return fmt.Errorf("idea %d already in terminal state %q", id, idea.AnalysisStatus)
	}

	if err := a.DB.Model(&idea).Update("analysis_status", models.AnalysisStatusAnalyzing).Error; err != nil {
		log.Error("Konnte Status 'analyzing' nicht schreiben", zap.Error(err))
		return err
	}
	log.Info("Analyse gestartet", zap.String("title", idea.Title))

	results, err := a.Search.Search(ctx, idea.Title, a.Config.SearchResultLimit)
	if err != nil {
		// Ohne Suchkontext gibt es keine degradierte Analyse.
		log.Error("Web-Suche fehlgeschlagen", zap.Error(err))
		a.markFailed(id, log)
		return err
	}

	prompt := BuildAnalysisPrompt(idea.Title, results)

	raw, err := a.Completion.Complete(ctx, prompt, a.Config.AnalysisTemperature)
	if err != nil {
		log.Error("Completion fehlgeschlagen", zap.Error(err))
		a.markFailed(id, log)
		return err
	}

	score := ExtractScore(raw)
	if score == nil {
		// Kein Fehler: die Completion hat den Marker nicht geliefert,
		// die Analyse gilt trotzdem als abgeschlossen.
		log.Warn("Kein Score-Marker in der Completion gefunden")
	}
	artifact := a.Sanitizer.Sanitize(raw)

	updates := map[string]interface{}{
		"analysis_status": models.AnalysisStatusCompleted,
		"score":           score,
		"analysis":        artifact,
	}
	if link := a.archiveArtifact(ctx, id, artifact, log); link != "" {
		updates["s3_link"] = link
	}

	if err := a.DB.Model(&models.Idea{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		log.Error("Konnte Analyseergebnis nicht persistieren", zap.Error(err))
		a.markFailed(id, log)
		return err
	}

	log.Info("Analyse abgeschlossen", zap.Intp("score", score))
	return nil
}

// markFailed setzt die Zeile best-effort auf "failed". Schlägt auch das fehl,
// bleibt sie in "analyzing" hängen und wird später vom Reaper eingesammelt.
func (a *AnalyzeService) markFailed(id uint, log *zap.Logger) {
	err := a.DB.Model(&models.Idea{}).
		Where("id = ?", id).
		Update("analysis_status", models.AnalysisStatusFailed).Error
	if err != nil {
		log.Error("Konnte Status 'failed' nicht schreiben", zap.Error(err))
	}
}

// archiveArtifact lädt das Analyse-HTML best-effort ins S3-Archiv.
// Ein Fehlschlag wird nur geloggt und stoppt die Analyse nicht.
func (a *AnalyzeService) archiveArtifact(ctx context.Context, id uint, artifact string, log *zap.Logger) string {
	if a.S3Client == nil {
		return ""
	}
	key := fmt.Sprintf("ideas/idea-%d.html", id)
	link, err := storage.UploadFile(ctx, a.S3Client, a.Config.S3Bucket, key, []byte(artifact), "text/html; charset=utf-8", a.Config)
	if err != nil {
		log.Error("S3-Archivierung fehlgeschlagen", zap.Error(err))
		return ""
	}
	log.Info("Artefakt nach S3 archiviert", zap.String("s3_link", link))
	return link
}

// ReapStale markiert "analyzing"-Zeilen, die älter als olderThan sind, als
// "failed". Fängt Zeilen ein, deren Dispatch verloren ging oder deren Prozess
// mitten in der Analyse gestorben ist.
func (a *AnalyzeService) ReapStale(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := a.DB.Model(&models.Idea{}).
		Where("analysis_status = ? AND updated_at < ?", models.AnalysisStatusAnalyzing, cutoff).
		Update("analysis_status", models.AnalysisStatusFailed)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		a.Logger.Warn("Hängende Analysen als 'failed' markiert", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}
