package models

// SearchResult ist ein normalisierter Treffer eines Web-Search-Providers.
// Nicht persistiert; dient nur als Kontext für den Prompt.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
