package services

import (
	"fmt"
	"strings"

	"idea-hand/models"
)

// analysisPromptTemplate ist die feste Analyse-Vorlage. Die Slots
// {{IDEA_TITLE}} und {{SEARCH_RESULTS}} werden per String-Ersetzung gefüllt;
// Titel und Suchkontext werden dabei nie gekürzt.
const analysisPromptTemplate = `You are a senior content strategist at a growth-marketing agency that builds
inbound content programs for B2B SaaS companies. You evaluate content ideas for
their potential to attract, educate and convert a professional B2B audience.

HARD CONSTRAINTS — follow these without exception:
- Output must be plain, static HTML only. Never include <script>, <iframe>,
  <object>, <embed>, <form> or any interactive or executable markup.
- Never use inline event handlers (onclick, onload, ...).
- Links may only use inert https:// display URLs. No javascript:, data: or
  other URL schemes.
- Do not include any content outside the single HTML document.

CONTEXT — who we write for:
Our clients are marketing and revenue leaders at B2B software companies. Content
succeeds when it answers a real buyer question, is findable via organic search,
and positions the client as a credible operator, not an advertiser.

CONTENT IDEA TO ANALYZE:
{{IDEA_TITLE}}

CURRENT WEB SEARCH CONTEXT:
{{SEARCH_RESULTS}}

ANALYSIS PROCEDURE:
1. Restate the idea in one sentence and identify the underlying buyer question.
2. Judge audience fit for B2B marketing and revenue leaders.
3. Use the search context to assess how saturated the topic already is.
4. Assess organic search demand and realistic ranking potential.
5. Identify the strongest angle that differentiates this idea from what exists.
6. Recommend the best content format (guide, comparison, data study, ...).
7. Assign a single score from 0 to 100 for overall content potential.

OUTPUT CONTRACT:
Respond with one complete HTML document (<!DOCTYPE html> through </html>) with
exactly these seven sections, each under its own <h2> heading:
1. Overview
2. Audience &amp; Relevance
3. Market Context
4. Search Demand
5. Competitive Landscape
6. Recommended Format
7. Final Verdict

The Final Verdict section must end with the score rendered exactly as:
<strong style="font-size: 1.2em; color: #FF7A59;">SCORE/100</strong>
where SCORE is the integer you assigned.`

// digestPromptTemplate ist die einstufige Vorlage für das tägliche Digest.
const digestPromptTemplate = `You are a senior content strategist at a growth-marketing agency serving B2B
SaaS companies. Summarize today's most relevant developments for our team.

HARD CONSTRAINTS:
- Output must be plain, static HTML only; no scripts, no interactive markup,
  no event handlers, links only as inert https:// display URLs.

TODAY'S WEB SEARCH CONTEXT:
{{SEARCH_RESULTS}}

Write one complete HTML document with a short headline, three to five concise
takeaways for B2B content marketers, and one suggested content opportunity
derived from the context above.`

// SerializeSearchResults rendert die Treffer als nummerierte Textliste für den Prompt.
func SerializeSearchResults(results []models.SearchResult) string {
	if len(results) == 0 {
		return "No search results available."
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n   Snippet: %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildAnalysisPrompt rendert die Analyse-Vorlage. Rein und deterministisch.
func BuildAnalysisPrompt(ideaTitle string, results []models.SearchResult) string {
	prompt := strings.ReplaceAll(analysisPromptTemplate, "{{IDEA_TITLE}}", ideaTitle)
	return strings.ReplaceAll(prompt, "{{SEARCH_RESULTS}}", SerializeSearchResults(results))
}

// BuildDigestPrompt rendert die Digest-Vorlage. Rein und deterministisch.
func BuildDigestPrompt(results []models.SearchResult) string {
	return strings.ReplaceAll(digestPromptTemplate, "{{SEARCH_RESULTS}}", SerializeSearchResults(results))
}
