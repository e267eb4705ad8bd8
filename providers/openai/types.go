package openai

// ChatRequest ist der Request-Body für den Chat-Completions-Endpunkt.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	N           int       `json:"n"`
}

// Message ist eine einzelne Chat-Nachricht.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse ist die relevante Teilmenge der Completions-Antwort.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

// Choice ist eine einzelne Completion-Auswahl.
type Choice struct {
	Message Message `json:"message"`
}
