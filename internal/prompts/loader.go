// Package prompts holds the enhancer's prompt templates, embedded at compile
// time from enhance.json.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"sync"
)

//go:embed enhance.json
var enhanceJSON []byte

// Enhancer prompt keys.
const (
	KeyHeadings       = "enhance-headings"
	KeyCitations      = "enhance-citations"
	KeyExtractPayload = "extract-payload"
)

var requiredKeys = []string{KeyHeadings, KeyCitations, KeyExtractPayload}

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

var (
	loadOnce sync.Once
	loaded   map[string]string
	loadErr  error
)

// MissingVariableError is returned when a prompt placeholder has no value.
type MissingVariableError struct {
	Key      string
	Variable string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("prompt %s needs a value for {{.%s}}", e.Key, e.Variable)
}

// Get returns the raw template stored under key.
func Get(key string) (string, error) {
	all, err := load()
	if err != nil {
		return "", err
	}
	prompt, ok := all[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in enhance.json", key)
	}
	return prompt, nil
}

// MustGet is Get for the fixed enhancer keys; it panics otherwise.
func MustGet(key string) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Render fills every {{.Name}} placeholder of the prompt under key in a
// single pass. Values are inserted verbatim and never rescanned, so document
// text that itself contains placeholder syntax reaches the model unchanged.
func Render(key string, vars map[string]string) (string, error) {
	prompt, err := Get(key)
	if err != nil {
		return "", err
	}
	for _, name := range placeholders(prompt) {
		if _, ok := vars[name]; !ok {
			return "", &MissingVariableError{Key: key, Variable: name}
		}
	}
	return placeholderRe.ReplaceAllStringFunc(prompt, func(m string) string {
		return vars[placeholderRe.FindStringSubmatch(m)[1]]
	}), nil
}

// Variables returns the sorted placeholder names of the prompt under key.
func Variables(key string) ([]string, error) {
	prompt, err := Get(key)
	if err != nil {
		return nil, err
	}
	return placeholders(prompt), nil
}

// Keys returns the prompt keys in sorted order.
func Keys() ([]string, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for key := range all {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func placeholders(prompt string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(prompt, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

func load() (map[string]string, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse(enhanceJSON)
	})
	return loaded, loadErr
}

func parse(data []byte) (map[string]string, error) {
	var all map[string]string
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse enhance.json: %w", err)
	}
	for _, key := range requiredKeys {
		if all[key] == "" {
			return nil, fmt.Errorf("enhance.json is missing prompt %q", key)
		}
	}
	return all, nil
}
