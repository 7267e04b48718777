package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/biosketch-checker/internal/types"
)

func TestExtractHeader(t *testing.T) {
	tests := []struct {
		name     string
		contents []string
		want     types.HeaderInfo
	}{
		{
			name: "colon labels",
			contents: []string{"Name: Jordan Rivera\nPID (ORCID): 0000-0002-1825-0097\n" +
				"Position Title: Professor\nOrganization/Location: University of Example, Springfield"},
			want: types.HeaderInfo{
				Name:          "Jordan Rivera",
				PID:           "0000-0002-1825-0097",
				PositionTitle: "Professor",
				Organization:  "University of Example, Springfield",
			},
		},
		{
			name:     "dash separator",
			contents: []string{"Name - Jane Doe\nTitle - Research Scientist"},
			want:     types.HeaderInfo{Name: "Jane Doe", PositionTitle: "Research Scientist"},
		},
		{
			name:     "first non-empty content wins",
			contents: []string{"  ", "ORCID: 0000-0001-2345-6789", "Name: Ignored"},
			want:     types.HeaderInfo{PID: "0000-0001-2345-6789"},
		},
		{
			name: "no content",
			want: types.HeaderInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHeader(tt.contents...))
		})
	}
}

func TestParseAppointments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Appointment
	}{
		{
			name: "ordered by end year with present first",
			content: "2015 - 2019 Postdoctoral Fellow, Harvard University\n" +
				"2019 - Present Associate Professor, University of Example\n" +
				"2010 - 2015 Graduate Student",
			want: []Appointment{
				{Timeframe: "2019 - Present", Position: "Associate Professor, University of Example"},
				{Timeframe: "2015 - 2019", Position: "Postdoctoral Fellow, Harvard University"},
				{Timeframe: "2010 - 2015", Position: "Graduate Student"},
			},
		},
		{
			name:    "same end year falls back to start year",
			content: "2016 - 2020 Lecturer\n2018 - 2020 Visiting Professor",
			want: []Appointment{
				{Timeframe: "2018 - 2020", Position: "Visiting Professor"},
				{Timeframe: "2016 - 2020", Position: "Lecturer"},
			},
		},
		{
			name:    "continuation lines join the entry",
			content: "1. 2019 - Current Professor\nDepartment of Biology",
			want: []Appointment{
				{Timeframe: "2019 - Current", Position: "Professor Department of Biology"},
			},
		},
		{
			name:    "undated entries sort last",
			content: "Consultant, Example Corp\n2012 - 2014 Analyst",
			want: []Appointment{
				{Timeframe: "2012 - 2014", Position: "Analyst"},
				{Position: "Consultant, Example Corp"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAppointments(tt.content))
		})
	}
}

func TestParseHonors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Honor
	}{
		{
			name:    "year prefixed lines",
			content: "2020 - Early Career Award\n2018 Dean's Prize\nfor teaching",
			want: []Honor{
				{Year: "2020", Name: "Early Career Award"},
				{Year: "2018", Name: "Dean's Prize for teaching"},
			},
		},
		{
			name:    "year on its own line",
			content: "2017\nBest Poster",
			want:    []Honor{{Year: "2017", Name: "Best Poster"}},
		},
		{
			name:    "undated honor",
			content: "- Fellow of the Society",
			want:    []Honor{{Name: "Fellow of the Society"}},
		},
		{
			name:    "empty",
			content: "\n \n",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHonors(tt.content))
		})
	}
}

func TestSplitInlineSection(t *testing.T) {
	main, extracted := SplitInlineSection(
		"Statement text.\nHonors\n2019 Award\nContributions to Science\n1. Something", "Honors")
	assert.Equal(t, "Statement text.", main)
	assert.Equal(t, "2019 Award", extracted)

	main, extracted = SplitInlineSection("Nothing inline here.", "Honors")
	assert.Equal(t, "Nothing inline here.", main)
	assert.Empty(t, extracted)
}

func TestNormalizeCertification(t *testing.T) {
	const core = "I certify that the information provided is current, accurate, and complete."

	tests := []struct {
		name    string
		content string
		exact   string
		want    string
	}{
		{
			name:    "exact text present",
			content: "Certified by Jordan Rivera\n" + core + " Extra words.",
			exact:   core,
			want:    core,
		},
		{
			name:  "empty content uses exact text",
			exact: core,
			want:  core,
		},
		{
			name: "nothing to print",
		},
		{
			name:    "boilerplate dropped and duplicates removed",
			content: "Certified by Jane in SciENcv\nSome statement.\n\nSome statement.",
			want:    "Some statement.",
		},
		{
			name:    "repeated core sentence",
			content: core + " Extra. " + core + " Extra.",
			want:    core + " Extra.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCertification(tt.content, tt.exact))
		})
	}
}

func TestRecoverPreparationRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []PreparationRow
	}{
		{
			name: "tab separated columns",
			content: "INSTITUTION AND LOCATION\tDEGREE\tSTART\tEND\tFIELD OF STUDY\n" +
				"Harvard University, Boston, MA\tPhD\t09/2010\t05/2015\tNeuroscience",
			want: []PreparationRow{{
				InstitutionAndLocation: "Harvard University, Boston, MA",
				Degree:                 "PhD",
				StartDate:              "09/2010",
				CompletionDate:         "05/2015",
				FieldOfStudy:           "Neuroscience",
			}},
		},
		{
			name:    "space aligned columns",
			content: "Yale University  BS  09/2006  05/2010  Biology",
			want: []PreparationRow{{
				InstitutionAndLocation: "Yale University",
				Degree:                 "BS",
				StartDate:              "09/2006",
				CompletionDate:         "05/2010",
				FieldOfStudy:           "Biology",
			}},
		},
		{
			name: "grouped lines",
			content: "Harvard University, Boston, MA\nPhD\n09/2010 - 05/2015 Neuroscience\n" +
				"Yale University, New Haven, CT\nBS\n09/2006 - 05/2010 Biology",
			want: []PreparationRow{
				{
					InstitutionAndLocation: "Harvard University, Boston, MA",
					Degree:                 "PhD",
					StartDate:              "09/2010",
					CompletionDate:         "05/2015",
					FieldOfStudy:           "Neuroscience",
				},
				{
					InstitutionAndLocation: "Yale University, New Haven, CT",
					Degree:                 "BS",
					StartDate:              "09/2006",
					CompletionDate:         "05/2010",
					FieldOfStudy:           "Biology",
				},
			},
		},
		{
			name:    "no dates",
			content: "Studied somewhere without dates",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecoverPreparationRows(tt.content))
		})
	}
}

func TestEscapeTableCell(t *testing.T) {
	assert.Equal(t, "", EscapeTableCell(""))
	assert.Equal(t, `a\|b c`, EscapeTableCell("a|b\r\nc"))
	assert.Equal(t, "plain text", EscapeTableCell("plain text"))
}
