package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/biosketch-checker/internal/parsing"
	"github.com/jonathan/biosketch-checker/internal/sections"
	"github.com/jonathan/biosketch-checker/internal/types"
)

const (
	// lengthEvidenceRunes bounds the excerpt attached to length findings.
	lengthEvidenceRunes = 140
	// exactEvidenceRunes bounds the excerpt attached to exact-text findings.
	exactEvidenceRunes = 200
	// MaxProductsPerContribution caps the citations kept under one contribution.
	MaxProductsPerContribution = 4
)

var collapseRegex = regexp.MustCompile(`\s+`)

// document is the shared read-only input of every rule.
type document struct {
	text     string
	template *types.TemplateConfig
	seg      *sections.Segmentation
	byID     map[string][]types.DetectedSection
}

// snippet is the evidence excerpt of section content, without the blank
// lines that follow a heading.
func snippet(content string, n int) string {
	return truncateRunes(strings.TrimSpace(content), n)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func collapse(s string) string {
	return strings.TrimSpace(collapseRegex.ReplaceAllString(s, " "))
}

// ContainsExact reports whether content contains the required text once
// whitespace runs in both are collapsed.
func ContainsExact(content, exact string) bool {
	return strings.Contains(collapse(content), collapse(exact))
}

func checkMissing(doc *document) []types.Issue {
	var issues []types.Issue
	for _, required := range doc.template.RequiredSections {
		if len(doc.byID[required.ID]) > 0 {
			continue
		}
		issues = append(issues, types.Issue{
			ID:             "missing-" + required.ID,
			Severity:       types.SeverityRed,
			Title:          "Missing required section: " + required.CanonicalHeading,
			Description:    "This required NIH biosketch section was not detected.",
			Section:        types.StringPtr(required.CanonicalHeading),
			Recommendation: types.StringPtr(fmt.Sprintf("Add the section %q and include the required content.", required.CanonicalHeading)),
		})
	}
	return issues
}

func checkDuplicates(doc *document) []types.Issue {
	var issues []types.Issue
	for _, id := range doc.seg.IDs() {
		matches := doc.byID[id]
		if len(matches) < 2 {
			continue
		}
		if rule, ok := doc.template.Section(id); ok && rule.DuplicateTolerant() {
			continue
		}

		headings := make([]string, len(matches))
		for i, m := range matches {
			headings[i] = m.OriginalHeading
		}
		canonical := matches[0].CanonicalHeading
		issues = append(issues, types.Issue{
			ID:              "duplicate-" + id,
			Severity:        types.SeverityYellow,
			Title:           "Duplicate section: " + canonical,
			Description:     "This section appears more than once.",
			Section:         types.StringPtr(canonical),
			EvidenceSnippet: types.StringPtr(strings.Join(headings, " | ")),
			Recommendation:  types.StringPtr("Merge or remove duplicate sections."),
		})
	}
	return issues
}

func checkOrder(doc *document) []types.Issue {
	var issues []types.Issue
	index := doc.template.OrderIndex()
	last := -1
	for _, section := range doc.seg.Sections {
		position, ok := index[section.ID]
		if !ok {
			continue
		}
		if rule, found := doc.template.Section(section.ID); found && rule.IsOrderExempt() {
			continue
		}
		if position < last {
			issues = append(issues, types.Issue{
				ID:             fmt.Sprintf("order-%s-%d", section.ID, position),
				Severity:       types.SeverityYellow,
				Title:          "Out-of-order section: " + section.CanonicalHeading,
				Description:    "This section appears before an expected earlier section.",
				Section:        types.StringPtr(section.CanonicalHeading),
				Recommendation: types.StringPtr("Reorder sections to match the NIH biosketch template."),
			})
		}
		if position > last {
			last = position
		}
	}
	return issues
}

func checkLength(doc *document) []types.Issue {
	var issues []types.Issue
	for _, section := range doc.seg.Sections {
		rule, ok := doc.template.Section(section.ID)
		if !ok {
			continue
		}
		length := utf8.RuneCountInString(strings.TrimSpace(section.Content))
		evidence := types.StringPtr(snippet(section.Content, lengthEvidenceRunes))

		if rule.MinChars > 0 && length < rule.MinChars {
			issues = append(issues, types.Issue{
				ID:       fmt.Sprintf("short-%s-%d", section.ID, section.StartLine),
				Severity: types.SeverityYellow,
				Title:    "Suspiciously short section: " + section.CanonicalHeading,
				Description: fmt.Sprintf("Content length of %d characters appears shorter than the recommended minimum of %d for %q.",
					length, rule.MinChars, section.CanonicalHeading),
				Section:         types.StringPtr(section.CanonicalHeading),
				EvidenceSnippet: evidence,
				Recommendation:  types.StringPtr("Confirm the section is complete and add missing detail."),
			})
		}
		if rule.MaxChars > 0 && length > rule.MaxChars {
			issues = append(issues, types.Issue{
				ID:       fmt.Sprintf("long-%s-%d", section.ID, section.StartLine),
				Severity: types.SeverityYellow,
				Title:    "Section may be too long: " + section.CanonicalHeading,
				Description: fmt.Sprintf("Content length of %d characters exceeds the maximum of %d for %q.",
					length, rule.MaxChars, section.CanonicalHeading),
				Section:         types.StringPtr(section.CanonicalHeading),
				EvidenceSnippet: evidence,
				Recommendation:  types.StringPtr("Revise and shorten the content to meet the NIH guideline."),
			})
		}
	}
	return issues
}

func checkExactText(doc *document) []types.Issue {
	var issues []types.Issue
	for _, section := range doc.seg.Sections {
		rule, ok := doc.template.Section(section.ID)
		if !ok || rule.ExactText == "" {
			continue
		}
		if ContainsExact(section.Content, rule.ExactText) {
			continue
		}
		issues = append(issues, types.Issue{
			ID:              fmt.Sprintf("exact-mismatch-%s-%d", section.ID, section.StartLine),
			Severity:        types.SeverityRed,
			Title:           "Incorrect statement: " + section.CanonicalHeading,
			Description:     fmt.Sprintf("The content for %q does not match the required statement.", section.CanonicalHeading),
			Section:         types.StringPtr(section.CanonicalHeading),
			EvidenceSnippet: types.StringPtr(snippet(section.Content, exactEvidenceRunes)),
			Recommendation:  types.StringPtr(fmt.Sprintf("Replace the content with the exact required text: %q", rule.ExactText)),
		})
	}
	return issues
}

// extract runs the kind-bound extractor of every detected section. A later
// section of the same kind replaces the data of an earlier one.
func extract(doc *document) ([]types.Issue, types.BiosketchData) {
	var issues []types.Issue
	var data types.BiosketchData

	for _, section := range doc.seg.Sections {
		rule, ok := doc.template.Section(section.ID)
		if !ok {
			continue
		}
		switch kind := rule.Kind(); kind {
		case types.KindPersonalStatement:
			statement := strings.TrimSpace(section.Content)
			data.PersonalStatement = &statement
		case types.KindProfessionalPreparation:
			data.ProfessionalPreparation = parsing.ParseProfessionalPreparation(section.Content)
		case types.KindContributions:
			contributions, found := extractContributions(section.Content, rule)
			issues = append(issues, found...)
			data.ContributionsToScience = contributions
		case types.KindProductsRelated, types.KindOtherProducts:
			products, found := extractProducts(section, rule)
			issues = append(issues, found...)
			if kind == types.KindProductsRelated {
				data.ProductsRelatedToProject = products
			} else {
				data.OtherSignificantProducts = products
			}
		case types.KindFormHeader, types.KindSupplementHeader, types.KindAppointments,
			types.KindCertification, types.KindHonors, types.KindGeneric:
			// validated by the generic rules only; rendered from raw content
		}
	}
	return issues, data
}

func extractContributions(content string, rule *types.TemplateSection) ([]types.ContributionToScience, []types.Issue) {
	var issues []types.Issue
	entries := parsing.SplitContributionEntries(content)

	if rule.MaxEntries > 0 && len(entries) > rule.MaxEntries {
		issues = append(issues, types.Issue{
			ID:       "max-entries-" + rule.ID,
			Severity: types.SeverityYellow,
			Title:    "Too many entries in " + rule.CanonicalHeading,
			Description: fmt.Sprintf("Found %d entries, but the maximum is %d. Only the first %d will be processed.",
				len(entries), rule.MaxEntries, rule.MaxEntries),
			Section:        types.StringPtr(rule.CanonicalHeading),
			Recommendation: types.StringPtr(fmt.Sprintf("Reduce the number of entries to %d.", rule.MaxEntries)),
		})
		entries = entries[:rule.MaxEntries]
	}

	contributions := make([]types.ContributionToScience, 0, len(entries))
	for n, entry := range entries {
		contribution := parsing.ParseContribution(entry)

		length := utf8.RuneCountInString(contribution.Description)
		if rule.MaxCharsPerEntry > 0 && length > rule.MaxCharsPerEntry {
			issues = append(issues, types.Issue{
				ID:       fmt.Sprintf("long-contribution-%s-%d", rule.ID, n),
				Severity: types.SeverityYellow,
				Title:    "Contribution description may be too long",
				Description: fmt.Sprintf("The description for contribution %d has %d characters, exceeding the limit of %d.",
					n+1, length, rule.MaxCharsPerEntry),
				Section:         types.StringPtr(rule.CanonicalHeading),
				EvidenceSnippet: types.StringPtr(truncateRunes(contribution.Description, lengthEvidenceRunes) + "..."),
				Recommendation:  types.StringPtr("Shorten the contribution description."),
			})
		}

		if len(contribution.Products) > MaxProductsPerContribution {
			issues = append(issues, types.Issue{
				ID:       fmt.Sprintf("max-products-per-contribution-%s-%d", rule.ID, n),
				Severity: types.SeverityYellow,
				Title:    "Too many products for contribution",
				Description: fmt.Sprintf("Contribution %d has %d products, but the maximum is %d.",
					n+1, len(contribution.Products), MaxProductsPerContribution),
				Section:        types.StringPtr(rule.CanonicalHeading),
				Recommendation: types.StringPtr(fmt.Sprintf("Reduce the number of products for this contribution to %d.", MaxProductsPerContribution)),
			})
			contribution.Products = contribution.Products[:MaxProductsPerContribution]
		}
		contributions = append(contributions, contribution)
	}
	return contributions, issues
}

func extractProducts(section types.DetectedSection, rule *types.TemplateSection) ([]types.Publication, []types.Issue) {
	var issues []types.Issue
	products := parsing.ParseCitations(section.Content)

	if rule.MaxEntries > 0 && len(products) > rule.MaxEntries {
		issues = append(issues, types.Issue{
			ID:             "max-entries-" + section.ID,
			Severity:       types.SeverityYellow,
			Title:          "Too many products in " + section.CanonicalHeading,
			Description:    fmt.Sprintf("Found %d products, but the maximum is %d.", len(products), rule.MaxEntries),
			Section:        types.StringPtr(section.CanonicalHeading),
			Recommendation: types.StringPtr(fmt.Sprintf("Reduce the number of products to %d.", rule.MaxEntries)),
		})
		products = products[:rule.MaxEntries]
	}
	return products, issues
}

func checkUnknownHeadings(doc *document) []types.Issue {
	issues := make([]types.Issue, 0, len(doc.seg.UnknownHeadings))
	for _, unknown := range doc.seg.UnknownHeadings {
		issues = append(issues, types.Issue{
			ID:              "unknown-" + unknown.Text,
			Severity:        types.SeverityYellow,
			Title:           "Unknown heading detected",
			Description:     "Heading was not recognized in the NIH template.",
			EvidenceSnippet: types.StringPtr(unknown.Text),
			Recommendation:  types.StringPtr("Verify the heading or map it to a template section."),
		})
	}
	return issues
}

// certified reports whether a certification section carries the required statement.
func certified(doc *document) *bool {
	rule, ok := doc.template.SectionOfKind(types.KindCertification)
	if !ok || rule.ExactText == "" {
		return nil
	}
	result := false
	for _, section := range doc.byID[rule.ID] {
		if ContainsExact(section.Content, rule.ExactText) {
			result = true
			break
		}
	}
	return &result
}
