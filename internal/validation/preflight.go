package validation

import (
	"github.com/jonathan/biosketch-checker/internal/types"
)

// CriticalFormatErrorID identifies the single issue returned when pre-flight fails.
const CriticalFormatErrorID = "critical-format-error"

// minAnchors is how many of the four anchor groups must be detected.
const minAnchors = 3

// anchorGroups lists the structural anchors. A group is present when any of
// its kinds was detected.
var anchorGroups = [][]types.SectionKind{
	{types.KindProfessionalPreparation},
	{types.KindAppointments},
	{types.KindProductsRelated, types.KindOtherProducts},
	{types.KindContributions},
}

// CountAnchors reports how many anchor groups appear among the detected sections.
func CountAnchors(detected []types.DetectedSection) int {
	found := make(map[types.SectionKind]bool)
	for _, section := range detected {
		found[types.KindForID(section.ID)] = true
	}

	count := 0
	for _, group := range anchorGroups {
		for _, kind := range group {
			if found[kind] {
				count++
				break
			}
		}
	}
	return count
}

// PreflightCheck returns the critical format issue when too few anchors were detected.
func PreflightCheck(detected []types.DetectedSection) (types.Issue, bool) {
	if CountAnchors(detected) >= minAnchors {
		return types.Issue{}, false
	}
	return types.Issue{
		ID:          CriticalFormatErrorID,
		Severity:    types.SeverityRed,
		Title:       "Critical Format Error",
		Description: "This document does not appear to use the 2026 NIH Common Form template (OMB No. 3145-0279). Validation cannot proceed.",
		Recommendation: types.StringPtr("Rebuild this CV using the standard template. The official SciENcv tool " +
			"(https://www.ncbi.nlm.nih.gov/sciencv/) is the recommended method for generating a compliant file " +
			"that matches the \"NIH Biographical Sketch Common Form\"."),
	}, true
}
