package types

// DetectedSection is a contiguous run of text under a recognized heading.
type DetectedSection struct {
	ID               string `json:"id"`
	CanonicalHeading string `json:"canonicalHeading"`
	OriginalHeading  string `json:"originalHeading"`
	Content          string `json:"content"`
	StartLine        int    `json:"startLine"`
}

// UnknownHeading is a heading-shaped line that matched no template section.
type UnknownHeading struct {
	Text string `json:"text"`
	Line int    `json:"line"`
}

// Publication is a parsed citation.
type Publication struct {
	Authors         string  `json:"authors"`
	Year            *int    `json:"year"`
	Title           string  `json:"title"`
	JournalOrSource *string `json:"journal_or_source"`
	DOIOrPMID       *string `json:"doi_or_pmid"`
	RawCitation     string  `json:"raw_citation"`
	Confidence      float64 `json:"confidence"`
}

// ProfessionalPreparation is one education or training record.
type ProfessionalPreparation struct {
	Institution    string `json:"institution"`
	Location       string `json:"location"`
	Degree         string `json:"degree"`
	StartDate      string `json:"startDate"`
	CompletionDate string `json:"completionDate"`
	FieldOfStudy   string `json:"fieldOfStudy"`
}

// ContributionToScience is one numbered contribution with its supporting products.
type ContributionToScience struct {
	Description string        `json:"description"`
	Products    []Publication `json:"products"`
}

// BiosketchData bundles structured entities recovered from the document.
// Every field is optional; an absent field means the section was not detected.
type BiosketchData struct {
	PersonalStatement        *string                   `json:"personalStatement,omitempty"`
	ProfessionalPreparation  []ProfessionalPreparation `json:"professionalPreparation,omitempty"`
	ContributionsToScience   []ContributionToScience   `json:"contributionsToScience,omitempty"`
	ProductsRelatedToProject []Publication             `json:"products_related_to_project,omitempty"`
	OtherSignificantProducts []Publication             `json:"other_significant_products,omitempty"`
	Certification            *bool                     `json:"certification,omitempty"`
}
