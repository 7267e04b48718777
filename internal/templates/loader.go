// Package templates loads, validates and caches biosketch template configurations.
// A template may be written as JSON or YAML; both are checked against the same
// embedded schema before use.
package templates

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/biosketch-checker/internal/schemas"
	"github.com/jonathan/biosketch-checker/internal/sections"
	"github.com/jonathan/biosketch-checker/internal/types"
)

// DefaultName identifies the embedded template in logs and cache keys.
const DefaultName = "nih-biosketch-template-2026.json"

//go:embed nih-biosketch-template-2026.json
var defaultTemplate []byte

var defaultOnce = sync.OnceValues(func() (*types.TemplateConfig, error) {
	return Parse(defaultTemplate, DefaultName)
})

var validate = validator.New()

// Default returns the embedded NIH template. It is parsed once and shared.
func Default() (*types.TemplateConfig, error) {
	return defaultOnce()
}

// DefaultSource returns the embedded template document.
func DefaultSource() []byte {
	out := make([]byte, len(defaultTemplate))
	copy(out, defaultTemplate)
	return out
}

// Load reads and validates a template file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func Load(path string) (*types.TemplateConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	return Parse(data, path)
}

// Parse decodes and validates template content. The source name selects the
// decoder by extension and is used in error messages.
func Parse(data []byte, source string) (*types.TemplateConfig, error) {
	jsonData := data
	if isYAML(source) {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, &LoadError{Path: source, Message: "failed to parse YAML", Cause: err}
		}
		jsonData = converted
	}

	if err := schemas.Validate(schemas.Template, jsonData); err != nil {
		return nil, &InvalidTemplateError{Path: source, Problems: []string{"schema check failed"}, Cause: err}
	}

	var config types.TemplateConfig
	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, &LoadError{Path: source, Message: "failed to decode template", Cause: err}
	}

	if err := validate.Struct(&config); err != nil {
		return nil, &InvalidTemplateError{Path: source, Problems: []string{"field validation failed"}, Cause: err}
	}

	if problems := checkSemantics(&config); len(problems) > 0 {
		return nil, &InvalidTemplateError{Path: source, Problems: problems}
	}
	return &config, nil
}

func isYAML(source string) bool {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("empty document")
	}
	return json.Marshal(doc)
}

// checkSemantics reports rules the schema cannot express.
func checkSemantics(config *types.TemplateConfig) []string {
	var problems []string

	ids := make(map[string]bool)
	for _, section := range config.AllSections() {
		if ids[section.ID] {
			problems = append(problems, fmt.Sprintf("duplicate section id %q", section.ID))
		}
		ids[section.ID] = true

		if sections.NormalizeHeading(section.CanonicalHeading) == "" {
			problems = append(problems, fmt.Sprintf("section %q has a heading that normalizes to nothing", section.ID))
		}
		if section.MinChars > 0 && section.MaxChars > 0 && section.MinChars > section.MaxChars {
			problems = append(problems, fmt.Sprintf("section %q has minChars %d above maxChars %d",
				section.ID, section.MinChars, section.MaxChars))
		}
	}

	seen := make(map[string]bool)
	for _, id := range config.Order {
		if !ids[id] {
			problems = append(problems, fmt.Sprintf("order references unknown section %q", id))
		}
		if seen[id] {
			problems = append(problems, fmt.Sprintf("order lists %q more than once", id))
		}
		seen[id] = true
	}
	return problems
}

// Collisions lists heading keys claimed by more than one section. Matching
// keeps the last section for such keys, so these are warnings only.
func Collisions(config *types.TemplateConfig) []string {
	owners := make(map[string][]string)
	for _, section := range config.AllSections() {
		keys := append([]string{section.CanonicalHeading}, section.Variants...)
		claimed := make(map[string]bool)
		for _, key := range keys {
			normalized := sections.NormalizeHeading(key)
			if normalized == "" || claimed[normalized] {
				continue
			}
			claimed[normalized] = true
			owners[normalized] = append(owners[normalized], section.ID)
		}
	}

	var warnings []string
	for key, ids := range owners {
		if len(ids) > 1 {
			warnings = append(warnings, fmt.Sprintf("heading %q is shared by %s; %s wins",
				key, strings.Join(ids, ", "), ids[len(ids)-1]))
		}
	}
	sort.Strings(warnings)
	return warnings
}
