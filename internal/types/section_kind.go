package types

// SectionKind is the closed set of section kinds the engine knows how to extract.
// Template ids select a kind through KindForID; ids the engine has no extractor for
// map to KindGeneric and are still validated (presence, order, length, exact text).
type SectionKind string

// Known section kinds, keyed by the template ids of the NIH biosketch common form.
const (
	KindFormHeader              SectionKind = "nih_biosketch_form"
	KindSupplementHeader        SectionKind = "nih_biosketch_supplement"
	KindProfessionalPreparation SectionKind = "professional_preparation"
	KindAppointments            SectionKind = "appointments_and_positions"
	KindProductsRelated         SectionKind = "products_related_to_project"
	KindOtherProducts           SectionKind = "other_significant_products"
	KindCertification           SectionKind = "certification_statement"
	KindPersonalStatement       SectionKind = "personal_statement"
	KindHonors                  SectionKind = "honors"
	KindContributions           SectionKind = "contributions_to_science"
	KindGeneric                 SectionKind = "generic"
)

var knownKinds = map[string]SectionKind{
	string(KindFormHeader):              KindFormHeader,
	string(KindSupplementHeader):        KindSupplementHeader,
	string(KindProfessionalPreparation): KindProfessionalPreparation,
	string(KindAppointments):            KindAppointments,
	string(KindProductsRelated):         KindProductsRelated,
	string(KindOtherProducts):           KindOtherProducts,
	string(KindCertification):           KindCertification,
	string(KindPersonalStatement):       KindPersonalStatement,
	string(KindHonors):                  KindHonors,
	string(KindContributions):           KindContributions,
}

// KindForID resolves a template section id to its kind.
func KindForID(id string) SectionKind {
	if kind, ok := knownKinds[id]; ok {
		return kind
	}
	return KindGeneric
}

// DuplicateTolerant is true for kinds that are restated on purpose (the
// certification appears on both the common form and the supplement).
func (k SectionKind) DuplicateTolerant() bool {
	return k == KindCertification
}

// OrderExempt is true for kinds that never take part in the ordering rule.
func (k SectionKind) OrderExempt() bool {
	switch k {
	case KindCertification, KindFormHeader, KindSupplementHeader:
		return true
	default:
		return false
	}
}

// IsProductList is true for kinds whose content is a flat citation list.
func (k SectionKind) IsProductList() bool {
	return k == KindProductsRelated || k == KindOtherProducts
}
