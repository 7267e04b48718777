package enhance

import "fmt"

// APICallError represents a failed call to the hosted model
type APICallError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: API call failed: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: API call failed: %s", e.Operation, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a model answer that could not be used
type ParseError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: parse error: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: parse error: %s", e.Operation, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
