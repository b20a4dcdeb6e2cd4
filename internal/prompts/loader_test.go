package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get(AgentsFile, "keyword-task")
	require.NoError(t, err)
	assert.Contains(t, prompt, "extract key technical terms")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(AgentsFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAgentPromptsPresent(t *testing.T) {
	for _, agent := range []string{"keyword-extractor", "researcher", "summarizer", "validator"} {
		for _, field := range []string{"name", "goal", "backstory"} {
			prompt, err := Get(AgentsFile, agent+"-"+field)
			require.NoError(t, err, "%s-%s", agent, field)
			assert.NotEmpty(t, prompt)
		}
	}
	for _, task := range []string{"keyword-task", "research-task", "summary-task", "validation-task"} {
		prompt, err := Get(AgentsFile, task)
		require.NoError(t, err, task)
		assert.NotEmpty(t, prompt)
	}
}

func TestFormat(t *testing.T) {
	template := "Compare {{.Description}} with {{.Summary}}."
	data := map[string]string{
		"Description": "the project",
		"Summary":     "the findings",
	}

	assert.Equal(t, "Compare the project with the findings.", Format(template, data))
}

func TestFormat_DoesNotExpandSubstitutedValues(t *testing.T) {
	template := "Project: {{.Description}}\nQuery: {{.Query}}\nResults: {{.SearchResults}}"
	data := map[string]string{
		"Description":   "Build a tool. Note: {{.Query}} and {{.SearchResults}}",
		"Query":         "q {{.Description}}",
		"SearchResults": "1. T {{.Description}}",
	}
	want := "Project: Build a tool. Note: {{.Query}} and {{.SearchResults}}\n" +
		"Query: q {{.Description}}\n" +
		"Results: 1. T {{.Description}}"

	for i := 0; i < 50; i++ {
		require.Equal(t, want, Format(template, data))
	}
}

func TestFormat_RepeatedPlaceholder(t *testing.T) {
	assert.Equal(t, "a-a", Format("{{.X}}-{{.X}}", map[string]string{"X": "a"}))
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	assert.Equal(t, template, Format(template, map[string]string{"Key": "Value"}))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestList_Sorted(t *testing.T) {
	keys, err := List(ExamplesFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Autonomous Vehicle Navigation",
		"Healthcare AI Assistant",
		"Smart Home Energy Management",
	}, keys)
}

func TestGet_Cached(t *testing.T) {
	prompt1, err := Get(AgentsFile, "summary-task")
	require.NoError(t, err)

	prompt2, err := Get(AgentsFile, "summary-task")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}

func TestExamples(t *testing.T) {
	examples, err := Examples()
	require.NoError(t, err)
	require.Len(t, examples, 3)
	assert.Equal(t, "Autonomous Vehicle Navigation", examples[0].Name)
	assert.Contains(t, examples[2].Description, "solar panel systems")
}

func TestFindExample(t *testing.T) {
	ex, ok := FindExample("Healthcare AI Assistant")
	require.True(t, ok)
	assert.Contains(t, ex.Description, "electronic health records")

	_, ok = FindExample("Unknown")
	assert.False(t, ok)
}
