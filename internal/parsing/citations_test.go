package parsing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCitationBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "enumerated lines start blocks",
			text: "1. Smith J. 2020. First paper. Journal A.\n2. Doe A. 2019. Second paper. Journal B.",
			want: []string{
				"Smith J. 2020. First paper. Journal A.",
				"Doe A. 2019. Second paper. Journal B.",
			},
		},
		{
			name: "continuation lines join with a space",
			text: "- Smith J. 2020. A paper that wraps\n   onto a second line. Journal A.",
			want: []string{"Smith J. 2020. A paper that wraps onto a second line. Journal A."},
		},
		{
			name: "blank lines separate blocks",
			text: "Smith J. 2020. First paper. Journal A.\n\nDoe A. 2019. Second paper. Journal B.",
			want: []string{
				"Smith J. 2020. First paper. Journal A.",
				"Doe A. 2019. Second paper. Journal B.",
			},
		},
		{
			name: "short blocks are noise",
			text: "* ok\n\nSee below\n\n• Lee K. 2018. Kept. Journal C.",
			want: []string{"Lee K. 2018. Kept. Journal C."},
		},
		{
			name: "bullet variants",
			text: "* Alpha A. 2001. One. J.\n• Beta B. 2002. Two. K.\n3) Gamma G. 2003. Three. L.",
			want: []string{"Alpha A. 2001. One. J.", "Beta B. 2002. Two. K.", "Gamma G. 2003. Three. L."},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCitationBlocks(tt.text))
		})
	}
}

func TestParseCitation(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		authors    string
		year       int
		title      string
		journal    string
		id         string
		confidence float64
	}{
		{
			name:       "year and doi",
			raw:        "Smith J, Doe A. 2020. Deep learning for cells. Nature Methods 17:1-10. doi:10.1038/s41592-020-0001-1",
			authors:    "Smith J, Doe A",
			year:       2020,
			title:      "Deep learning for cells",
			journal:    "Nature Methods 17:1-10. doi:10.1038/s41592-020-0001-1",
			id:         "10.1038/s41592-020-0001-1",
			confidence: 0.95,
		},
		{
			name:       "parenthesized year",
			raw:        "Lee K (2019) Title here. Journal X.",
			authors:    "Lee K",
			year:       2019,
			title:      "Title here",
			journal:    "Journal X.",
			confidence: 0.7,
		},
		{
			name:       "pmid",
			raw:        "Chen L. 2018. Cell atlas. J Biol. PMID: 12345678",
			authors:    "Chen L",
			year:       2018,
			title:      "Cell atlas",
			journal:    "J Biol. PMID: 12345678",
			id:         "12345678",
			confidence: 0.95,
		},
		{
			name:       "no year splits on first period",
			raw:        "Anonymous. Some report title. Agency",
			authors:    "Anonymous",
			title:      "Some report title",
			journal:    "Agency",
			confidence: 0.55,
		},
		{
			name:       "no year no period",
			raw:        "An untitled working draft",
			title:      "An untitled working draft",
			confidence: 0.55,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := ParseCitation(tt.raw)
			assert.Equal(t, tt.raw, pub.RawCitation)
			assert.Equal(t, tt.authors, pub.Authors)
			assert.Equal(t, tt.title, pub.Title)
			assert.InDelta(t, tt.confidence, pub.Confidence, 1e-9)

			if tt.year == 0 {
				assert.Nil(t, pub.Year)
			} else {
				require.NotNil(t, pub.Year)
				assert.Equal(t, tt.year, *pub.Year)
			}
			if tt.journal == "" {
				assert.Nil(t, pub.JournalOrSource)
			} else {
				require.NotNil(t, pub.JournalOrSource)
				assert.Equal(t, tt.journal, *pub.JournalOrSource)
			}
			if tt.id == "" {
				assert.Nil(t, pub.DOIOrPMID)
			} else {
				require.NotNil(t, pub.DOIOrPMID)
				assert.Equal(t, tt.id, *pub.DOIOrPMID)
			}
		})
	}
}

func TestParseCitation_DOIPreferredOverPMID(t *testing.T) {
	pub := ParseCitation("Kim S. 2017. Both ids. Cell. PMID: 99999999. doi:10.1016/j.cell.2017.01.001.")
	require.NotNil(t, pub.DOIOrPMID)
	assert.Equal(t, "10.1016/j.cell.2017.01.001", *pub.DOIOrPMID)
}

func TestParseCitation_ConfidenceBounds(t *testing.T) {
	for _, raw := range []string{"", ".", "2020", "x. 1999. y. z. PMID 123456", "Title only without periods"} {
		pub := ParseCitation(raw)
		assert.GreaterOrEqual(t, pub.Confidence, 0.0)
		assert.LessOrEqual(t, pub.Confidence, 1.0)
	}
}

func TestParseCitations_Deterministic(t *testing.T) {
	text := "1. Smith J. 2020. First paper. Journal A. doi:10.1000/abc\n2. Doe A. Second paper. Journal B.\n3. Lee K (2019) Third. PMID: 1234567"

	first := ParseCitations(text)
	second := ParseCitations(text)
	require.Len(t, first, 3)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ParseCitations not deterministic (-first +second):\n%s", diff)
	}
}

func TestFormatCitation(t *testing.T) {
	pub := ParseCitation("Smith J. 2020. First paper. Journal A. doi:10.1000/abc")
	assert.Equal(t, "Smith J (2020). First paper. Journal A. doi:10.1000/abc.", FormatCitation(pub))

	bare := ParseCitation("Lee K (2019) Third. PMID: 1234567")
	assert.Equal(t, "Lee K (2019). Third. PMID: 1234567.", FormatCitation(bare))
}
