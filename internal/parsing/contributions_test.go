package parsing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitContributionEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "numbered entries", content: "1. First.\n2. Second.\n3. Third.", want: 3},
		{name: "blank line before number", content: "1. First.\n\n2. Second.", want: 2},
		{name: "leading blank lines", content: "\n\n1. First.\n2. Second.", want: 2},
		{name: "preamble counts as entry", content: "Intro text.\n1. First.", want: 2},
		{name: "number without space is not a boundary", content: "1. First covers 2.5 years\n2.5 million cells", want: 1},
		{name: "empty", content: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, SplitContributionEntries(tt.content), tt.want)
		})
	}
}

func TestParseContributions(t *testing.T) {
	content := "1. First contribution description.\n" +
		"\n" +
		"- Smith J. 2020. Paper one. Journal A.\n" +
		"- Smith J. 2021. Paper two. Journal B.\n" +
		"2. Second contribution.\n" +
		"\n" +
		"- Doe A. 2019. Paper three. Journal C."

	contributions := ParseContributions(content)
	require.Len(t, contributions, 2)

	assert.Equal(t, "First contribution description.", contributions[0].Description)
	require.Len(t, contributions[0].Products, 2)
	assert.Equal(t, "Paper one", contributions[0].Products[0].Title)
	assert.Equal(t, "Paper two", contributions[0].Products[1].Title)

	assert.Equal(t, "Second contribution.", contributions[1].Description)
	require.Len(t, contributions[1].Products, 1)
	assert.Equal(t, "Doe A", contributions[1].Products[0].Authors)
}

func TestParseContribution_ProductsUncapped(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("1. Many products.\n\n")
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&sb, "- Author %c. 20%02d. Paper %d. Journal.\n", 'A'+i, 10+i, i)
	}

	contribution := ParseContribution(sb.String())
	assert.Equal(t, "Many products.", contribution.Description)
	assert.Len(t, contribution.Products, 6)
}

func TestParseContribution_DescriptionOnly(t *testing.T) {
	contribution := ParseContribution("3. Only a description here.")
	assert.Equal(t, "Only a description here.", contribution.Description)
	assert.Empty(t, contribution.Products)
}
