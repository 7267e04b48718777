package db

import (
	"github.com/jonathan/biosketch-checker/internal/types"
)

// Listing bounds for ListReports.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ListOptions filter and page a report listing. Zero values list the newest
// DefaultListLimit reports of any status.
type ListOptions struct {
	Status       *types.Severity
	DocumentHash string
	Limit        int
	Offset       int
}

// normalized clamps Limit and Offset into range.
func (o ListOptions) normalized() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
