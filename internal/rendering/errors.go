// Package rendering reconstructs a template-conformant biosketch draft from
// detected sections and extracted entities.
package rendering

import "fmt"

// TemplateError reports a failure to parse or execute the embedded HTML
// draft template. The plain-text renderer cannot fail.
type TemplateError struct {
	Stage string // "parse" or "execute"
	Cause error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("draft template %s failed: %v", e.Stage, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
