package services

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Die Vorlage verbietet ausführbares und interaktives Markup; falls die
// Completion sich nicht daran hält, wird es hier entfernt, bevor das Artefakt
// persistiert und den Viewern unverändert angezeigt wird.
var (
	scriptBlockPattern  = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	blockedTagPattern   = regexp.MustCompile(`(?is)</?(script|iframe|object|embed|form|input|button|textarea|select)\b[^>]*>`)
	eventHandlerPattern = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	badSchemePattern    = regexp.MustCompile(`(?i)(href|src)\s*=\s*("|')?\s*(javascript|data|vbscript):[^"'\s>]*("|')?`)
)

// HTMLSanitizer bereinigt das Analyse-HTML der Completion.
type HTMLSanitizer struct {
	Logger *zap.Logger
}

// NewHTMLSanitizer erstellt einen neuen Sanitizer.
func NewHTMLSanitizer(logger *zap.Logger) *HTMLSanitizer {
	return &HTMLSanitizer{Logger: logger}
}

// Sanitize entfernt Script-Blöcke, interaktive Tags, Inline-Event-Handler und
// nicht-inerte URL-Schemata. Das übrige Markup bleibt unangetastet.
func (s *HTMLSanitizer) Sanitize(html string) string {
	cleaned := scriptBlockPattern.ReplaceAllString(html, "")
	cleaned = blockedTagPattern.ReplaceAllString(cleaned, "")
	cleaned = eventHandlerPattern.ReplaceAllString(cleaned, "")
	cleaned = badSchemePattern.ReplaceAllString(cleaned, `$1="#"`)

	if removed := len(html) - len(cleaned); removed > 0 {
		s.Logger.Warn("Unsicheres Markup aus Analyse-Artefakt entfernt",
			zap.Int("chars_removed", removed))
	}
	return strings.TrimSpace(cleaned)
}
