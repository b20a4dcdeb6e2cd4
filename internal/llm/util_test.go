package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_PreambleText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "As requested, here is the JSON:\n{\"keywords\": [\"LiDAR\"]}",
			expected: `{"keywords": ["LiDAR"]}`,
		},
		{
			name:     "conversational preamble",
			input:    "Based on the project description provided, I've extracted the key terms. Here's the structured output:\n\n{\"keywords\": [\"EHR\"], \"summary\": \"healthcare assistant\"}",
			expected: `{"keywords": ["EHR"], "summary": "healthcare assistant"}`,
		},
		{
			name:     "preamble with multiple sentences",
			input:    "I analyzed the text. The project needs forecasting. Here is the result: {\"keywords\": [\"forecasting\"]}",
			expected: `{"keywords": ["forecasting"]}`,
		},
		{
			name:     "preamble before JSON array",
			input:    "Here are the items:\n[\"item1\", \"item2\"]",
			expected: `["item1", "item2"]`,
		},
		{
			name:     "JSON with trailing text",
			input:    "{\"key\": \"value\"}\n\nLet me know if you need anything else!",
			expected: `{"key": "value"}`,
		},
		{
			name:     "nested objects",
			input:    "Output:\n{\"outer\": {\"inner\": \"value\"}}",
			expected: `{"outer": {"inner": "value"}}`,
		},
		{
			name:     "JSON with escaped quotes",
			input:    "Result: {\"message\": \"He said \\\"hello\\\"\"}",
			expected: `{"message": "He said \"hello\""}`,
		},
		{
			name:     "deeply nested",
			input:    "Here: {\"a\": {\"b\": {\"c\": {\"d\": \"deep\"}}}}",
			expected: `{"a": {"b": {"c": {"d": "deep"}}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple object",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "nested objects",
			input:    `{"outer": {"inner": "value"}}`,
			expected: `{"outer": {"inner": "value"}}`,
		},
		{
			name:     "object with array",
			input:    `{"items": [1, 2, 3]}`,
			expected: `{"items": [1, 2, 3]}`,
		},
		{
			name:     "object with trailing text",
			input:    `{"key": "value"} and some more text`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "string with braces inside",
			input:    `{"template": "Hello {name}!"}`,
			expected: `{"template": "Hello {name}!"}`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not starting with brace",
			input:    "not json",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple array",
			input:    `["a", "b", "c"]`,
			expected: `["a", "b", "c"]`,
		},
		{
			name:     "nested arrays",
			input:    `[[1, 2], [3, 4]]`,
			expected: `[[1, 2], [3, 4]]`,
		},
		{
			name:     "array of objects",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "array with trailing text",
			input:    `[1, 2, 3] extra stuff`,
			expected: `[1, 2, 3]`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not starting with bracket",
			input:    "not array",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONArray(tt.input))
		})
	}
}

func TestCleanJSONBlock_DelimitersInsideStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "closing brace inside string after preamble",
			input:    `Here you go: {"a": "x}y"} trailing`,
			expected: `{"a": "x}y"}`,
		},
		{
			name:     "escaped quote next to brace",
			input:    `{"a": "say \"}\" ok"} done`,
			expected: `{"a": "say \"}\" ok"}`,
		},
		{
			name:     "escaped backslash before closing quote",
			input:    `Result: {"path": "C:\\"} tail`,
			expected: `{"path": "C:\\"}`,
		},
		{
			name:     "bracket inside string in array",
			input:    `Keywords: ["x]y", "{"] and more`,
			expected: `["x]y", "{"]`,
		},
		{
			name:     "keyword stage response with chatter",
			input:    "Sure! Here are the keywords:\n{\"keywords\": [\"EHR\", \"a}b\"], \"summary\": \"x\"}\nHope this helps.",
			expected: `{"keywords": ["EHR", "a}b"], "summary": "x"}`,
		},
		{
			name:     "unterminated object is returned as is",
			input:    `Result: {"a": "b"`,
			expected: `Result: {"a": "b"`,
		},
		{
			name:     "unterminated string keeps scanning",
			input:    `{"a": "b}`,
			expected: `{"a": "b}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractDelimited(t *testing.T) {
	assert.Equal(t, "", extractDelimited(`[1]`, '{', '}'))
	assert.Equal(t, `{"a": "\\\""}`, extractDelimited(`{"a": "\\\""} x`, '{', '}'))
	assert.Equal(t, "", extractDelimited(`{"a": {"b": 1}`, '{', '}'))
	assert.Equal(t, `[["]"], []]`, extractDelimited(`[["]"], []] rest`, '[', ']'))
}
