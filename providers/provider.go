package providers

import (
	"context"
	"errors"

	"idea-hand/models"
)

// ErrUpstreamUnavailable signalisiert, dass ein externer Provider (Suche oder
// Completion) nicht erreichbar war oder einen Fehlerstatus geliefert hat.
// Für den laufenden Analyse-Versuch ist das fatal; es gibt keinen Retry.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// SearchProvider ist das Interface, das jeder Web-Search-Provider implementieren muss.
type SearchProvider interface {
	// Search liefert bis zu count normalisierte Treffer für die Query.
	// Null Treffer sind kein Fehler, sondern eine leere Liste.
	Search(ctx context.Context, query string, count int) ([]models.SearchResult, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "brave").
	Name() string
}

// CompletionProvider ist das Interface für Text-Generation-Dienste.
type CompletionProvider interface {
	// Complete sendet den fertigen Prompt und gibt den rohen Text der
	// obersten Completion zurück.
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "openai").
	Name() string
}
