// Package llm - extractor.go provides schema-driven prompts for structured output.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure an LLM is asked to return.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ProjectKeywords")
	Description string        // Task preamble describing the extraction
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// KeywordSchema returns the extraction schema for the keyword stage.
func KeywordSchema(taskDescription string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "ProjectKeywords",
		Description: taskDescription,
		Fields: []SchemaField{
			{
				Name:        "keywords",
				Type:        "[\"string\"]",
				Description: "Technical terms and concepts, most important first, each 1-4 words",
				Required:    true,
			},
			{
				Name:        "summary",
				Type:        "\"string\"",
				Description: "One or two sentences on what the project is about",
				Required:    false,
			},
		},
	}
}
