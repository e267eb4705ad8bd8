package brave

// SearchResponse ist die relevante Teilmenge der Brave-Search-API-Antwort.
type SearchResponse struct {
	Web WebResults `json:"web"`
}

// WebResults enthält die eigentlichen Web-Treffer.
type WebResults struct {
	Results []Result `json:"results"`
}

// Result ist ein einzelner Treffer der Brave-Search-API.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
