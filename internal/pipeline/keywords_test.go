package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantOK      bool
		wantKW      []string
		wantSummary string
	}{
		{
			name:        "plain JSON",
			input:       `{"keywords": ["EHR", "NLP"], "summary": "clinical assistant"}`,
			wantOK:      true,
			wantKW:      []string{"EHR", "NLP"},
			wantSummary: "clinical assistant",
		},
		{
			name:   "fenced with preamble",
			input:  "Here you go:\n{\"keywords\": [\"LiDAR\"]}",
			wantOK: true,
			wantKW: []string{"LiDAR"},
		},
		{
			name:   "dedupes and collapses whitespace",
			input:  `{"keywords": ["path  planning", "Path planning", "SLAM"]}`,
			wantOK: true,
			wantKW: []string{"path planning", "SLAM"},
		},
		{
			name:   "schema violation",
			input:  `{"keywords": []}`,
			wantOK: false,
		},
		{
			name:   "not JSON",
			input:  "IoT, sensors, energy",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kw, summary, ok := parseKeywords(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKW, kw)
			assert.Equal(t, tt.wantSummary, summary)
		})
	}
}

func TestBuildQuery(t *testing.T) {
	kw := []string{"a", "b", "c", "d", "e", "f", "g"}
	assert.Equal(t, "a b c d e f", buildQuery(kw, "", 0))
	assert.Equal(t, "a b", buildQuery(kw, "", 2))

	assert.Equal(t, "IoT sensors", buildQuery(nil, "\n\n- IoT   sensors\nsecond", 6))
	assert.Equal(t, "", buildQuery(nil, "  \n ", 6))

	long := strings.Repeat("x", 300)
	assert.Len(t, buildQuery(nil, long, 6), maxFallbackQueryLen)
}

func TestFormatKeywords(t *testing.T) {
	structured := &KeywordResult{Keywords: []string{"EHR", "NLP"}, Summary: "clinical"}
	assert.Equal(t, "- EHR\n- NLP\n\nProject focus: clinical", formatKeywords(structured))

	raw := &KeywordResult{Text: "  EHR, NLP  "}
	assert.Equal(t, "EHR, NLP", formatKeywords(raw))
}
