package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes a structured extraction request: the task
// preamble and the JSON fields the model must return.
type ExtractionSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// SchemaField is one top-level field of the expected JSON answer.
type SchemaField struct {
	Name        string
	Type        string // JSON shape hint shown to the model
	Description string
	Required    bool
}

// BuildExtractionPrompt renders the schema and the input text into one prompt.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		fmt.Fprintf(&sb, "  %q: %s%s", field.Name, typeHint, requiredHint)
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Copy text verbatim from the input; do not invent, summarize or reword.\n")
	sb.WriteString("- Omit a field when the input has no value for it.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// BiosketchPayloadSchema is the extraction schema for the header, honors and
// contributions of an NIH biosketch.
func BiosketchPayloadSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "BiosketchPayload",
		Description: description,
		Fields: []SchemaField{
			{
				Name:        "common_form",
				Type:        `{"header": {"name": "string", "pid_orcid": "string", "position_title": "string", "organization_location": "string"}}`,
				Description: "Identity block at the top of the common form",
			},
			{
				Name:        "supplement",
				Type:        `{"honors": [{"year": "string", "honor_name": "string"}], "contributions": [{"description": "string", "products": ["string"]}]}`,
				Description: "Honors list and numbered contributions to science with their cited products",
				Required:    true,
			},
		},
	}
}
