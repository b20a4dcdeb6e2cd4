package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/researchscope/internal/llm"
	"github.com/jonathan/researchscope/internal/schemas"
	rootschemas "github.com/jonathan/researchscope/schemas"
)

// DefaultMaxQueryTerms is how many keywords go into the search query.
const DefaultMaxQueryTerms = 6

// maxFallbackQueryLen caps a query taken from unstructured model output.
const maxFallbackQueryLen = 200

type keywordPayload struct {
	Keywords []string `json:"keywords"`
	Summary  string   `json:"summary"`
}

// parseKeywords reads the keyword stage response. ok is false when the text
// is not JSON matching the keywords schema.
func parseKeywords(text string) (keywords []string, summary string, ok bool) {
	cleaned := llm.CleanJSONBlock(text)
	if err := schemas.ValidateEmbedded(rootschemas.KeywordsSchema, cleaned); err != nil {
		return nil, "", false
	}

	var payload keywordPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, "", false
	}

	seen := make(map[string]bool, len(payload.Keywords))
	for _, kw := range payload.Keywords {
		kw = strings.Join(strings.Fields(kw), " ")
		key := strings.ToLower(kw)
		if kw == "" || seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return nil, "", false
	}
	return keywords, strings.TrimSpace(payload.Summary), true
}

// buildQuery joins the leading keywords, or falls back to the first
// non-blank line of the raw response.
func buildQuery(keywords []string, raw string, maxTerms int) string {
	if len(keywords) > 0 {
		if maxTerms <= 0 {
			maxTerms = DefaultMaxQueryTerms
		}
		return strings.Join(keywords[:min(len(keywords), maxTerms)], " ")
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		line = strings.TrimLeft(line, "-*#• ")
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxFallbackQueryLen {
			line = strings.TrimSpace(string(runes[:maxFallbackQueryLen]))
		}
		return line
	}
	return ""
}

// formatKeywords renders keywords for the downstream prompts.
func formatKeywords(kw *KeywordResult) string {
	if len(kw.Keywords) == 0 {
		return strings.TrimSpace(kw.Text)
	}
	var sb strings.Builder
	for i, k := range kw.Keywords {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(k)
	}
	if kw.Summary != "" {
		sb.WriteString("\n\nProject focus: ")
		sb.WriteString(kw.Summary)
	}
	return sb.String()
}
