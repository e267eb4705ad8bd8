package services

import (
	"regexp"
	"strconv"
)

// scorePattern matcht exakt den Score-Marker aus dem Output-Contract der
// Analyse-Vorlage: ein <strong> mit fester Style-Signatur, gefolgt von "/100".
var scorePattern = regexp.MustCompile(`<strong style="font-size: 1\.2em; color: #FF7A59;">(\d{1,3})/100</strong>`)

// ExtractScore sucht den Score-Marker im Completion-Text und gibt den
// eingeschlossenen Integer zurück. Fehlt der Marker oder liegt der Wert
// außerhalb [0,100], ist das Ergebnis nil — das ist kein Fehler, sondern eine
// Completion, die dem Output-Contract nicht gefolgt ist.
func ExtractScore(completion string) *int {
	match := scorePattern.FindStringSubmatch(completion)
	if match == nil {
		return nil
	}
	score, err := strconv.Atoi(match[1])
	if err != nil || score > 100 {
		return nil
	}
	return &score
}
