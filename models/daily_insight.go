package models

import (
	"time"
)

// DailyInsight speichert das tägliche Markt-Digest als HTML-Blob.
// Zeilen sind nach dem Anlegen unveränderlich; das Dashboard liest nur die neueste.
type DailyInsight struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Content string `json:"content" gorm:"type:text;not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (DailyInsight) TableName() string {
	return "daily_insights"
}
