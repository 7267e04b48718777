// Package validation checks biosketch text against a template: a structural
// pre-flight gate, then a fixed sequence of compliance rules, each appending
// its own findings.
package validation

import (
	"github.com/jonathan/biosketch-checker/internal/sections"
	"github.com/jonathan/biosketch-checker/internal/types"
)

// Result is the engine output for one document.
type Result struct {
	Issues           []types.Issue
	DetectedSections []types.DetectedSection
	UnknownHeadings  []types.UnknownHeading
	BiosketchData    types.BiosketchData
	// PreflightFailed is set when the critical format issue short-circuited the rules.
	PreflightFailed bool
}

// Status derives the overall document status from the issues.
func (r *Result) Status() types.Severity {
	return types.OverallStatus(r.Issues)
}

// Engine validates documents against one template. It holds no per-document
// state and is safe for concurrent use.
type Engine struct {
	template *types.TemplateConfig
	matcher  *sections.Matcher
}

// NewEngine prepares an engine for the given template.
func NewEngine(template *types.TemplateConfig) *Engine {
	return &Engine{
		template: template,
		matcher:  sections.NewMatcher(template),
	}
}

// Template returns the template the engine validates against.
func (e *Engine) Template() *types.TemplateConfig {
	return e.template
}

// Matcher returns the heading matcher built for the template.
func (e *Engine) Matcher() *sections.Matcher {
	return e.matcher
}

// Validate is a convenience wrapper around NewEngine(template).Validate(text).
func Validate(text string, template *types.TemplateConfig) *Result {
	return NewEngine(template).Validate(text)
}

// Validate segments the text and evaluates every rule. It always returns a
// result, including for empty text.
func (e *Engine) Validate(text string) *Result {
	seg := sections.SegmentWith(text, e.matcher)
	result := &Result{
		Issues:           []types.Issue{},
		DetectedSections: seg.Sections,
		UnknownHeadings:  seg.UnknownHeadings,
	}
	if result.DetectedSections == nil {
		result.DetectedSections = []types.DetectedSection{}
	}

	if issue, failed := PreflightCheck(seg.Sections); failed {
		result.Issues = append(result.Issues, issue)
		result.PreflightFailed = true
		return result
	}

	doc := &document{
		text:     text,
		template: e.template,
		seg:      seg,
		byID:     seg.ByID(),
	}

	result.Issues = append(result.Issues, CheckPII(doc.text)...)
	result.Issues = append(result.Issues, checkMissing(doc)...)
	result.Issues = append(result.Issues, checkDuplicates(doc)...)
	result.Issues = append(result.Issues, checkOrder(doc)...)
	result.Issues = append(result.Issues, checkLength(doc)...)
	result.Issues = append(result.Issues, checkExactText(doc)...)

	extractIssues, data := extract(doc)
	result.Issues = append(result.Issues, extractIssues...)
	result.Issues = append(result.Issues, checkUnknownHeadings(doc)...)

	data.Certification = certified(doc)
	result.BiosketchData = data
	return result
}
