package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractScoreFindsMarker(t *testing.T) {
	score := ExtractScore(`<strong style="font-size: 1.2em; color: #FF7A59;">73/100</strong>`)
	require.NotNil(t, score)
	assert.Equal(t, 73, *score)
}

func TestExtractScoreInsideFullDocument(t *testing.T) {
	doc := `<!DOCTYPE html><html><body>
<h2>Final Verdict</h2>
<p>Strong idea with clear demand.</p>
<p><strong style="font-size: 1.2em; color: #FF7A59;">82/100</strong></p>
</body></html>`
	score := ExtractScore(doc)
	require.NotNil(t, score)
	assert.Equal(t, 82, *score)
}

func TestExtractScoreMissingMarker(t *testing.T) {
	assert.Nil(t, ExtractScore("no marker here"))
	assert.Nil(t, ExtractScore("<strong>73/100</strong>"))
	assert.Nil(t, ExtractScore(`<strong style="color: #FF7A59;">73/100</strong>`))
	assert.Nil(t, ExtractScore(""))
}

func TestExtractScoreRejectsOutOfRange(t *testing.T) {
	assert.Nil(t, ExtractScore(`<strong style="font-size: 1.2em; color: #FF7A59;">101/100</strong>`))
}

func TestExtractScoreBounds(t *testing.T) {
	zero := ExtractScore(`<strong style="font-size: 1.2em; color: #FF7A59;">0/100</strong>`)
	require.NotNil(t, zero)
	assert.Equal(t, 0, *zero)

	hundred := ExtractScore(`<strong style="font-size: 1.2em; color: #FF7A59;">100/100</strong>`)
	require.NotNil(t, hundred)
	assert.Equal(t, 100, *hundred)
}

func TestExtractScoreIsPure(t *testing.T) {
	input := `<strong style="font-size: 1.2em; color: #FF7A59;">55/100</strong>`
	first := ExtractScore(input)
	second := ExtractScore(input)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}
