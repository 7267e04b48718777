// Package types provides type definitions for structured data used throughout the biosketch-checker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TemplateSection is one catalog entry of a versioned biosketch template.
// Zero-valued bounds are treated as "no constraint".
type TemplateSection struct {
	ID               string   `json:"id" yaml:"id" validate:"required"`
	CanonicalHeading string   `json:"canonicalHeading" yaml:"canonicalHeading" validate:"required"`
	Variants         []string `json:"variants" yaml:"variants"`
	MinChars         int      `json:"minChars,omitempty" yaml:"minChars,omitempty" validate:"gte=0"`
	MaxChars         int      `json:"maxChars,omitempty" yaml:"maxChars,omitempty" validate:"gte=0"`
	MaxEntries       int      `json:"maxEntries,omitempty" yaml:"maxEntries,omitempty" validate:"gte=0"`
	MaxCharsPerEntry int      `json:"maxCharsPerEntry,omitempty" yaml:"maxCharsPerEntry,omitempty" validate:"gte=0"`
	ExactText        string   `json:"exactText,omitempty" yaml:"exactText,omitempty"`

	// AllowDuplicates and OrderExempt extend the defaults carried by the section's Kind.
	AllowDuplicates bool `json:"allowDuplicates,omitempty" yaml:"allowDuplicates,omitempty"`
	OrderExempt     bool `json:"orderExempt,omitempty" yaml:"orderExempt,omitempty"`
}

// Kind returns the closed section kind bound to this section's id.
func (s *TemplateSection) Kind() SectionKind {
	return KindForID(s.ID)
}

// DuplicateTolerant reports whether the section may legitimately appear more than once.
func (s *TemplateSection) DuplicateTolerant() bool {
	return s.AllowDuplicates || s.Kind().DuplicateTolerant()
}

// IsOrderExempt reports whether the section is skipped by the ordering rule.
func (s *TemplateSection) IsOrderExempt() bool {
	return s.OrderExempt || s.Kind().OrderExempt()
}

// HeadingHeuristic configures which unmatched lines are reported as unknown headings.
type HeadingHeuristic struct {
	MaxHeadingLength int  `json:"maxHeadingLength" yaml:"maxHeadingLength" validate:"gt=0"`
	AllowAllCaps     bool `json:"allowAllCaps" yaml:"allowAllCaps"`
}

// TemplateConfig is the declarative description of a biosketch template.
// A loaded TemplateConfig is shared read-only; nothing in the engine mutates it.
type TemplateConfig struct {
	Name                    string            `json:"name" yaml:"name" validate:"required"`
	Version                 string            `json:"version" yaml:"version" validate:"required"`
	RequiredSections        []TemplateSection `json:"requiredSections" yaml:"requiredSections" validate:"dive"`
	OptionalSections        []TemplateSection `json:"optionalSections" yaml:"optionalSections" validate:"dive"`
	Order                   []string          `json:"order" yaml:"order"`
	UnknownHeadingHeuristic HeadingHeuristic  `json:"unknownHeadingHeuristic" yaml:"unknownHeadingHeuristic"`
}

// AllSections returns required sections followed by optional sections.
func (t *TemplateConfig) AllSections() []TemplateSection {
	all := make([]TemplateSection, 0, len(t.RequiredSections)+len(t.OptionalSections))
	all = append(all, t.RequiredSections...)
	all = append(all, t.OptionalSections...)
	return all
}

// Section looks up a catalog entry by id.
func (t *TemplateConfig) Section(id string) (*TemplateSection, bool) {
	for i := range t.RequiredSections {
		if t.RequiredSections[i].ID == id {
			return &t.RequiredSections[i], true
		}
	}
	for i := range t.OptionalSections {
		if t.OptionalSections[i].ID == id {
			return &t.OptionalSections[i], true
		}
	}
	return nil, false
}

// SectionOfKind returns the first catalog entry bound to the given kind.
func (t *TemplateConfig) SectionOfKind(kind SectionKind) (*TemplateSection, bool) {
	for i := range t.RequiredSections {
		if t.RequiredSections[i].Kind() == kind {
			return &t.RequiredSections[i], true
		}
	}
	for i := range t.OptionalSections {
		if t.OptionalSections[i].Kind() == kind {
			return &t.OptionalSections[i], true
		}
	}
	return nil, false
}

// OrderIndex maps section ids to their position in Order.
func (t *TemplateConfig) OrderIndex() map[string]int {
	index := make(map[string]int, len(t.Order))
	for i, id := range t.Order {
		index[id] = i
	}
	return index
}
