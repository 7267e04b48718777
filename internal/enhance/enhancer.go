// Package enhance is the optional text-enhancement collaborator. When disabled
// every operation is the identity; when enabled a hosted model may clean
// headings and citations and extract a structured payload. Callers treat any
// error as "use the input unchanged".
package enhance

import (
	"context"

	"github.com/jonathan/biosketch-checker/internal/types"
)

// Enhancer rewrites document text before the rule engine sees it.
type Enhancer interface {
	Enabled() bool
	// EnhanceHeadings returns text with section headings put on their own lines.
	EnhanceHeadings(ctx context.Context, text string) (string, error)
	// EnhanceCitations returns one cleaned citation per input block, in order.
	EnhanceCitations(ctx context.Context, blocks []string) ([]string, error)
	// ExtractStructured returns the secondary payload, or nil when there is none.
	ExtractStructured(ctx context.Context, text string) (*types.StructuredPayload, error)
	Close() error
}

// Noop is the disabled enhancer.
type Noop struct{}

var _ Enhancer = Noop{}

func (Noop) Enabled() bool { return false }

func (Noop) EnhanceHeadings(_ context.Context, text string) (string, error) { return text, nil }

func (Noop) EnhanceCitations(_ context.Context, blocks []string) ([]string, error) {
	return blocks, nil
}

func (Noop) ExtractStructured(context.Context, string) (*types.StructuredPayload, error) {
	return nil, nil
}

func (Noop) Close() error { return nil }
