package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"idea-hand/config"
	"idea-hand/providers"
)

var httpClient = &http.Client{Timeout: 120 * time.Second}

// Fetcher implementiert das CompletionProvider-Interface für die
// OpenAI-Chat-Completions-API.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen OpenAI-Completion-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "openai"
}

// Complete sendet den Prompt als einzelne User-Message und gibt den Text der
// obersten Completion zurück. Ein umschließender Markdown-Code-Fence
// (```html ... ```) wird entfernt; mehr Normalisierung findet nicht statt.
func (f *Fetcher) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	log := f.Logger.With(zap.String("model", f.Config.OpenAIModel))
	log.Info("Sende Prompt an Completion-API", zap.Int("prompt_length", len(prompt)))

	reqBody := ChatRequest{
		Model:       f.Config.OpenAIModel,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		N:           1,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := f.Config.OpenAIBaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.Config.OpenAIAPIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: completion: %v", providers.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: completion status %d: %s", providers.ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}

	var chatResponse ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResponse); err != nil {
		return "", fmt.Errorf("%w: completion: invalid response body: %v", providers.ErrUpstreamUnavailable, err)
	}
	if len(chatResponse.Choices) == 0 {
		return "", fmt.Errorf("%w: completion: response contained no choices", providers.ErrUpstreamUnavailable)
	}

	content := stripCodeFence(chatResponse.Choices[0].Message.Content)
	log.Info("Completion erhalten", zap.Int("content_length", len(content)))
	return content, nil
}

// stripCodeFence entfernt einen umschließenden ```html- bzw. ```-Fence.
func stripCodeFence(s string) string {
	cleaned := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(cleaned, "```html"):
		cleaned = strings.TrimPrefix(cleaned, "```html")
	case strings.HasPrefix(cleaned, "```"):
		cleaned = strings.TrimPrefix(cleaned, "```")
	default:
		return cleaned
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
