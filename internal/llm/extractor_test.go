package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt(t *testing.T) {
	schema := KeywordSchema("Extract key technical terms from the project description.")
	prompt := BuildExtractionPrompt(schema, "Smart home energy management with solar integration")

	assert.True(t, strings.HasPrefix(prompt, "Extract key technical terms"))
	assert.Contains(t, prompt, `"keywords": ["string"] (required)`)
	assert.Contains(t, prompt, `"summary": "string"`)
	assert.NotContains(t, prompt, `"summary": "string" (required)`)
	assert.Contains(t, prompt, "Smart home energy management with solar integration")
	assert.Contains(t, prompt, "Return ONLY the JSON object")
}

func TestBuildExtractionPrompt_DefaultTypeHint(t *testing.T) {
	schema := ExtractionSchema{
		Description: "desc",
		Fields:      []SchemaField{{Name: "topic"}},
	}

	prompt := BuildExtractionPrompt(schema, "input")
	assert.Contains(t, prompt, `"topic": "string"`+"\n")
}
