package types

import (
	"encoding/json"
	"strings"
)

// StructuredPayload is the optional secondary payload returned by the text
// enhancer. The draft reconstructor prefers it over heuristic extraction when
// the relevant part is present and well-formed.
type StructuredPayload struct {
	CommonForm *CommonFormPayload `json:"common_form,omitempty"`
	Supplement *SupplementPayload `json:"supplement,omitempty"`
}

// CommonFormPayload holds common-form data from the enhancer.
type CommonFormPayload struct {
	Header *HeaderPayload `json:"header,omitempty"`
}

// HeaderPayload is the enhancer's view of the biosketch header block.
type HeaderPayload struct {
	Name                 string `json:"name"`
	PIDOrcid             string `json:"pid_orcid"`
	PositionTitle        string `json:"position_title"`
	OrganizationLocation string `json:"organization_location"`
}

// SupplementPayload holds supplement data from the enhancer.
type SupplementPayload struct {
	Honors        []HonorPayload        `json:"honors,omitempty"`
	Contributions []ContributionPayload `json:"contributions,omitempty" validate:"dive"`
}

// HonorPayload is one honor line.
type HonorPayload struct {
	Year      FlexString `json:"year"`
	HonorName string     `json:"honor_name"`
}

// FlexString accepts either a JSON string or a JSON number.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// ContributionPayload is one contribution with verbatim product citations.
type ContributionPayload struct {
	Description string   `json:"description" validate:"required"`
	Products    []string `json:"products,omitempty"`
}

// HeaderInfo is the resolved header block used by the draft.
type HeaderInfo struct {
	Name          string `json:"name"`
	PID           string `json:"pid"`
	PositionTitle string `json:"positionTitle"`
	Organization  string `json:"organization"`
}

// IsEmpty reports whether no header field carries a value.
func (h HeaderInfo) IsEmpty() bool {
	return strings.TrimSpace(h.Name) == "" && strings.TrimSpace(h.PID) == "" &&
		strings.TrimSpace(h.PositionTitle) == "" && strings.TrimSpace(h.Organization) == ""
}

// Header returns the payload header as HeaderInfo, or false when absent or empty.
func (p *StructuredPayload) Header() (HeaderInfo, bool) {
	if p == nil || p.CommonForm == nil || p.CommonForm.Header == nil {
		return HeaderInfo{}, false
	}
	h := p.CommonForm.Header
	info := HeaderInfo{
		Name:          strings.TrimSpace(h.Name),
		PID:           strings.TrimSpace(h.PIDOrcid),
		PositionTitle: strings.TrimSpace(h.PositionTitle),
		Organization:  strings.TrimSpace(h.OrganizationLocation),
	}
	if info.IsEmpty() {
		return HeaderInfo{}, false
	}
	return info, true
}

// Honors returns the non-empty payload honors.
func (p *StructuredPayload) Honors() []HonorPayload {
	if p == nil || p.Supplement == nil {
		return nil
	}
	var honors []HonorPayload
	for _, h := range p.Supplement.Honors {
		year := strings.TrimSpace(string(h.Year))
		name := strings.TrimSpace(h.HonorName)
		if year == "" && name == "" {
			continue
		}
		honors = append(honors, HonorPayload{Year: FlexString(year), HonorName: name})
	}
	return honors
}
