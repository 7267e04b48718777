package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_AllEmbedded(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			data, err := Raw(name)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestRaw_Unknown(t *testing.T) {
	_, err := Raw("nope")
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "nope", loadErr.Name)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidate_Template(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "minimal valid",
			doc: `{"name":"T","version":"1","requiredSections":[{"id":"a_b","canonicalHeading":"A"}],
				"order":["a_b"],"unknownHeadingHeuristic":{"maxHeadingLength":80,"allowAllCaps":true}}`,
		},
		{
			name:    "missing name",
			doc:     `{"version":"1","requiredSections":[],"order":[],"unknownHeadingHeuristic":{"maxHeadingLength":80,"allowAllCaps":true}}`,
			wantErr: true,
		},
		{
			name: "bad section id",
			doc: `{"name":"T","version":"1","requiredSections":[{"id":"Bad Id","canonicalHeading":"A"}],
				"order":[],"unknownHeadingHeuristic":{"maxHeadingLength":80,"allowAllCaps":true}}`,
			wantErr: true,
		},
		{
			name: "unknown section field",
			doc: `{"name":"T","version":"1","requiredSections":[{"id":"a","canonicalHeading":"A","maxWords":3}],
				"order":[],"unknownHeadingHeuristic":{"maxHeadingLength":80,"allowAllCaps":true}}`,
			wantErr: true,
		},
		{
			name: "zero heading length",
			doc: `{"name":"T","version":"1","requiredSections":[],
				"order":[],"unknownHeadingHeuristic":{"maxHeadingLength":0,"allowAllCaps":true}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Template, []byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
			assert.Greater(t, len(validationErr.Errors), 0)
			assert.Equal(t, Template, validationErr.Schema)
		})
	}
}

func TestValidate_PayloadYearAcceptsNumber(t *testing.T) {
	doc := `{"supplement":{"honors":[{"year":2019,"honor_name":"Award"},{"year":"2020","honor_name":"Prize"}]}}`
	assert.NoError(t, Validate(Payload, []byte(doc)))
}

func TestValidate_PayloadContributionNeedsDescription(t *testing.T) {
	doc := `{"supplement":{"contributions":[{"products":["x"]}]}}`
	err := Validate(Payload, []byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(Payload, []byte(`{not json`))
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{"name":1}`)
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}
