package templates

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/biosketch-checker/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const yamlTemplate = `
name: Short Form
version: "1"
requiredSections:
  - id: personal_statement
    canonicalHeading: Personal Statement
    minChars: 10
    maxChars: 200
  - id: honors
    canonicalHeading: Honors
    variants: [Awards]
order: [personal_statement, honors]
unknownHeadingHeuristic:
  maxHeadingLength: 60
  allowAllCaps: false
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	config, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "NIH Biographical Sketch Common Form", config.Name)
	assert.Len(t, config.RequiredSections, 6)
	assert.Len(t, config.OptionalSections, 4)
	assert.Equal(t, 80, config.UnknownHeadingHeuristic.MaxHeadingLength)

	cert, ok := config.SectionOfKind(types.KindCertification)
	require.True(t, ok)
	assert.Contains(t, cert.ExactText, "malign foreign talent recruitment program")

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, config, again)
}

func TestDefault_NoCollisions(t *testing.T) {
	config, err := Default()
	require.NoError(t, err)
	assert.Empty(t, Collisions(config))
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "short.yaml", yamlTemplate)

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Short Form", config.Name)
	assert.Equal(t, []string{"Awards"}, config.RequiredSections[1].Variants)
	assert.False(t, config.UnknownHeadingHeuristic.AllowAllCaps)
}

func TestLoad_JSONMatchesEmbedded(t *testing.T) {
	path := writeFile(t, "nih.json", string(DefaultSource()))

	loaded, err := Load(path)
	require.NoError(t, err)
	embedded, err := Default()
	require.NoError(t, err)
	assert.Equal(t, embedded, loaded)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		wantInvalid bool
		wantMessage string
	}{
		{
			name:        "malformed json",
			file:        "bad.json",
			content:     `{"name":`,
			wantInvalid: false,
		},
		{
			name:        "malformed yaml",
			file:        "bad.yaml",
			content:     "name: [unclosed",
			wantInvalid: false,
		},
		{
			name: "order references unknown id",
			file: "order.json",
			content: `{"name":"T","version":"1","requiredSections":[{"id":"a","canonicalHeading":"A"}],
				"order":["a","b"],"unknownHeadingHeuristic":{"maxHeadingLength":80,"allowAllCaps":true}}`,
			wantInvalid: true,
			wantMessage: `unknown section "b"`,
		},
		{
			name: "duplicate id",
			file: "dup.json",
			content: `{"name":"T","version":"1","requiredSections":[{"id":"a","canonicalHeading":"A"}],
				"optionalSections":[{"id":"a","canonicalHeading":"Other"}],
				"order":[],"unknownHeadingHeuristic":{"maxHeadingLength":80,"allowAllCaps":true}}`,
			wantInvalid: true,
			wantMessage: `duplicate section id "a"`,
		},
		{
			name: "inverted bounds",
			file: "bounds.json",
			content: `{"name":"T","version":"1","requiredSections":[{"id":"a","canonicalHeading":"A","minChars":50,"maxChars":10}],
				"order":[],"unknownHeadingHeuristic":{"maxHeadingLength":80,"allowAllCaps":true}}`,
			wantInvalid: true,
			wantMessage: "above maxChars",
		},
		{
			name:        "schema violation",
			file:        "schema.json",
			content:     `{"name":"T"}`,
			wantInvalid: true,
			wantMessage: "schema check failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)

			var invalid *InvalidTemplateError
			var loadErr *LoadError
			if tt.wantInvalid {
				require.True(t, errors.As(err, &invalid), "expected InvalidTemplateError, got %T", err)
				assert.Contains(t, err.Error(), tt.wantMessage)
			} else {
				require.True(t, errors.As(err, &loadErr) || errors.As(err, &invalid), "unexpected error type %T", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCollisions_LastWins(t *testing.T) {
	config := &types.TemplateConfig{
		RequiredSections: []types.TemplateSection{
			{ID: "first", CanonicalHeading: "Awards"},
			{ID: "second", CanonicalHeading: "Prizes", Variants: []string{"AWARDS"}},
		},
	}
	warnings := Collisions(config)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "second wins")
}

func TestCache_ConcurrentFirstCallersShareOneValue(t *testing.T) {
	path := writeFile(t, "short.yml", yamlTemplate)
	cache := NewCache()

	const callers = 16
	results := make([]*types.TemplateConfig, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			config, err := cache.Get(path)
			assert.NoError(t, err)
			results[i] = config
		}(i)
	}
	wg.Wait()

	for _, config := range results {
		assert.Same(t, results[0], config)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestCache_FailuresNotCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "later.yaml")
	cache := NewCache()

	_, err := cache.Get(path)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	require.NoError(t, os.WriteFile(path, []byte(yamlTemplate), 0o644))
	config, err := cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, "Short Form", config.Name)
}

func TestCache_EmptyPathIsDefault(t *testing.T) {
	config, err := NewCache().Get("")
	require.NoError(t, err)
	embedded, err := Default()
	require.NoError(t, err)
	assert.Same(t, embedded, config)
}
