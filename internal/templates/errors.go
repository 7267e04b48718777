package templates

import (
	"fmt"
	"strings"
)

// LoadError represents a template file that could not be read or decoded
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load template %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load template %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// InvalidTemplateError represents a template that decoded but breaks a structural rule
type InvalidTemplateError struct {
	Path     string
	Problems []string
	Cause    error
}

func (e *InvalidTemplateError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid template %s", e.Path)
	if len(e.Problems) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e.Problems, "; "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *InvalidTemplateError) Unwrap() error {
	return e.Cause
}
