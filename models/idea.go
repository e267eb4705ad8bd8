package models

import (
	"time"
)

// Status-Werte für den Analyse-Lebenszyklus. Übergänge nur vorwärts:
// pending -> analyzing -> completed | failed.
const (
	AnalysisStatusPending   = "pending"
	AnalysisStatusAnalyzing = "analyzing"
	AnalysisStatusCompleted = "completed"
	AnalysisStatusFailed    = "failed"
)

// Projekt-Status, unabhängig vom Analyse-Status und von jedem Teammitglied änderbar.
const (
	ProjectStatusNew        = "new"
	ProjectStatusInReview   = "in-review"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusComplete   = "complete"
	ProjectStatusOnHold     = "on-hold"
)

// ValidProjectStatus prüft, ob der Wert ein bekannter Projekt-Status ist.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusNew, ProjectStatusInReview, ProjectStatusInProgress, ProjectStatusComplete, ProjectStatusOnHold:
		return true
	}
	return false
}

// TerminalAnalysisStatus meldet, ob ein Analyse-Status absorbierend ist.
func TerminalAnalysisStatus(s string) bool {
	return s == AnalysisStatusCompleted || s == AnalysisStatusFailed
}

// Idea repräsentiert eine eingereichte Content-Idee und ihr Analyseergebnis.
type Idea struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	RawContent  string `json:"raw_content,omitempty" gorm:"type:text"`
	UserID      string `json:"user_id" gorm:"index;not null"`

	AnalysisStatus string `json:"analysis_status" gorm:"index;default:'pending'"`
	ProjectStatus  string `json:"project_status" gorm:"index;default:'new'"`

	// Score in [0,100]; nur bei erfolgreicher Extraktion gesetzt.
	Score *int `json:"score"`

	// Analysis ist das bereinigte HTML-Dokument der KI-Analyse.
	Analysis *string `json:"analysis,omitempty" gorm:"type:text"`
	S3Link   string  `json:"s3_link,omitempty" gorm:"type:text"`
}
