package rendering

import (
	"regexp"
	"strings"

	"github.com/jonathan/biosketch-checker/internal/parsing"
	"github.com/jonathan/biosketch-checker/internal/types"
)

// OMB numbers printed on the two forms.
const (
	CommonFormOMB = "OMB No. 3145-0279"
	SupplementOMB = "OMB No. 0925-0001"
)

// Header placeholders used when a field could not be recovered.
const (
	namePlaceholder         = "[Name]"
	pidPlaceholder          = "[PID]"
	positionPlaceholder     = "[Position Title]"
	organizationPlaceholder = "[Organization/Location]"
	datePlaceholder         = "[Date]"
)

var paragraphSplitRegex = regexp.MustCompile(`\n{2,}`)

// BlockKind selects how a block is rendered.
type BlockKind int

// Block kinds. Every section body is exactly one of these.
const (
	BlockPlaceholder BlockKind = iota
	BlockParagraphs
	BlockPreparation
	BlockAppointments
	BlockPublications
	BlockContributions
	BlockHonors
	BlockCertification
)

// PreparationRow is one row of the professional preparation table.
type PreparationRow struct {
	InstitutionAndLocation string
	Degree                 string
	StartDate              string
	CompletionDate         string
	FieldOfStudy           string
}

// Appointment is one row of the appointments table.
type Appointment struct {
	Timeframe string
	Position  string
}

// Honor is one year/honor line.
type Honor struct {
	Year string
	Name string
}

// Line renders the honor as "year - name", or just the name when the year is unknown.
func (h Honor) Line() string {
	if h.Year == "" {
		return h.Name
	}
	return strings.TrimSpace(h.Year + " - " + h.Name)
}

// Block is one renderable body. Only the fields that belong to Kind are set.
type Block struct {
	Kind          BlockKind
	Subheading    string
	Placeholder   string
	Paragraphs    []string
	Preparation   []PreparationRow
	Appointments  []Appointment
	Publications  []types.Publication
	Contributions []types.ContributionToScience
	Honors        []Honor
	Certification string
	SignedBy      string
	SignedOn      string
}

// Section is one titled part of a form.
type Section struct {
	Title  string
	Blocks []Block
}

// Grouped reports whether the section only gathers subheaded blocks that are
// template sections in their own right.
func (s Section) Grouped() bool {
	if len(s.Blocks) == 0 {
		return false
	}
	for _, block := range s.Blocks {
		if block.Subheading == "" {
			return false
		}
	}
	return true
}

// InstructionLabel is the copy hint shown above the section in rich output.
func (s Section) InstructionLabel() string {
	return "[COPY INTO SCIENCV: " + strings.ToUpper(s.Title) + "]"
}

// Form is either the common form or the supplement.
type Form struct {
	ID       string
	Title    string
	OMB      string
	Sections []Section
}

// Draft is the rendering-independent reconstruction. Both output kinds are
// produced from the same Draft, so section inclusion, order and fallbacks
// cannot diverge between them.
type Draft struct {
	Header     types.HeaderInfo
	CommonForm Form
	Supplement Form
}

// headerValue returns the value, or the placeholder when it is blank.
func headerValue(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

// HeaderLines returns the four labelled header lines.
func (d *Draft) HeaderLines() []string {
	return []string{
		"Name: " + headerValue(d.Header.Name, namePlaceholder),
		"PID (ORCID): " + headerValue(d.Header.PID, pidPlaceholder),
		"Position Title: " + headerValue(d.Header.PositionTitle, positionPlaceholder),
		"Organization/Location: " + headerValue(d.Header.Organization, organizationPlaceholder),
	}
}

// Forms returns the common form followed by the supplement.
func (d *Draft) Forms() []Form {
	return []Form{d.CommonForm, d.Supplement}
}

// Input is everything the reconstructor reads. Payload is optional.
type Input struct {
	Sections []types.DetectedSection
	Template *types.TemplateConfig
	Data     types.BiosketchData
	Payload  *types.StructuredPayload
}

// Output holds the two synchronized representations of a draft.
type Output struct {
	PlainText  string
	RichMarkup string
}

// Reconstruct builds the draft and renders both representations.
func Reconstruct(in Input) (Output, error) {
	draft := Build(in)
	rich, err := RenderHTML(draft)
	if err != nil {
		return Output{}, err
	}
	return Output{PlainText: RenderPlain(draft), RichMarkup: rich}, nil
}

// builder resolves section content by kind.
type builder struct {
	in     Input
	byKind map[types.SectionKind][]types.DetectedSection
}

// Build makes every fallback decision once. It never fails; missing content
// becomes a "TODO: Add <Section>" placeholder.
func Build(in Input) *Draft {
	b := &builder{in: in, byKind: make(map[types.SectionKind][]types.DetectedSection)}
	for _, section := range in.Sections {
		kind := types.KindForID(section.ID)
		b.byKind[kind] = append(b.byKind[kind], section)
	}

	header, ok := in.Payload.Header()
	if !ok {
		header = ExtractHeader(b.content(types.KindFormHeader), b.content(types.KindSupplementHeader))
	}

	certification := b.certification(header)

	draft := &Draft{
		Header: header,
		CommonForm: Form{
			ID:    "common-form",
			Title: "NIH Biographical Sketch Common Form",
			OMB:   CommonFormOMB,
			Sections: []Section{
				b.preparation(),
				b.appointments(),
				b.products(),
				certification,
			},
		},
	}

	statement, inlineHonors := b.personalStatement()
	draft.Supplement = Form{
		ID:    "supplement",
		Title: "NIH Biographical Sketch Supplement",
		OMB:   SupplementOMB,
		Sections: []Section{
			statement,
			b.honors(inlineHonors),
			b.contributions(),
			certification,
		},
	}
	return draft
}

// content joins every detected section of the kind, in document order.
func (b *builder) content(kind types.SectionKind) string {
	matches := b.byKind[kind]
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.Content)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func placeholder(title string) Block {
	return Block{Kind: BlockPlaceholder, Placeholder: "TODO: Add " + title}
}

// rawOrPlaceholder renders raw content as paragraphs, or a placeholder.
func rawOrPlaceholder(content, title string) Block {
	paragraphs := splitParagraphs(content)
	if len(paragraphs) == 0 {
		return placeholder(title)
	}
	return Block{Kind: BlockParagraphs, Paragraphs: paragraphs}
}

func splitParagraphs(content string) []string {
	var paragraphs []string
	for _, chunk := range paragraphSplitRegex.Split(content, -1) {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			paragraphs = append(paragraphs, chunk)
		}
	}
	return paragraphs
}

func (b *builder) preparation() Section {
	const title = "Professional Preparation"
	section := Section{Title: title}

	if records := b.in.Data.ProfessionalPreparation; len(records) > 0 {
		rows := make([]PreparationRow, len(records))
		for i, r := range records {
			rows[i] = PreparationRow{
				InstitutionAndLocation: joinNonEmpty(", ", r.Institution, r.Location),
				Degree:                 r.Degree,
				StartDate:              r.StartDate,
				CompletionDate:         r.CompletionDate,
				FieldOfStudy:           r.FieldOfStudy,
			}
		}
		section.Blocks = []Block{{Kind: BlockPreparation, Preparation: rows}}
		return section
	}

	content := b.content(types.KindProfessionalPreparation)
	if rows := RecoverPreparationRows(content); len(rows) > 0 {
		section.Blocks = []Block{{Kind: BlockPreparation, Preparation: rows}}
		return section
	}
	section.Blocks = []Block{rawOrPlaceholder(content, title)}
	return section
}

func (b *builder) appointments() Section {
	const title = "Appointments and Positions"
	content := b.content(types.KindAppointments)
	if rows := ParseAppointments(content); len(rows) > 0 {
		return Section{Title: title, Blocks: []Block{{Kind: BlockAppointments, Appointments: rows}}}
	}
	return Section{Title: title, Blocks: []Block{rawOrPlaceholder(content, title)}}
}

func (b *builder) products() Section {
	related := publicationBlock(
		"Products Closely Related to the Proposed Project",
		b.in.Data.ProductsRelatedToProject,
		b.content(types.KindProductsRelated),
	)
	other := publicationBlock(
		"Other Significant Products",
		b.in.Data.OtherSignificantProducts,
		b.content(types.KindOtherProducts),
	)
	return Section{Title: "Products", Blocks: []Block{related, other}}
}

func publicationBlock(subheading string, pubs []types.Publication, content string) Block {
	var block Block
	if len(pubs) > 0 {
		block = Block{Kind: BlockPublications, Publications: pubs}
	} else {
		block = rawOrPlaceholder(content, subheading)
	}
	block.Subheading = subheading
	return block
}

func (b *builder) certification(header types.HeaderInfo) Section {
	const title = "Certification"
	var exact string
	if b.in.Template != nil {
		if rule, ok := b.in.Template.SectionOfKind(types.KindCertification); ok {
			exact = rule.ExactText
		}
	}
	text := NormalizeCertification(b.content(types.KindCertification), exact)

	block := Block{
		Kind:          BlockCertification,
		Certification: text,
		SignedBy:      headerValue(header.Name, namePlaceholder),
		SignedOn:      datePlaceholder,
	}
	if text == "" {
		block.Placeholder = "TODO: Add " + title
	}
	return Section{Title: title, Blocks: []Block{block}}
}

// personalStatement returns the statement section and any honors block found
// inline in it.
func (b *builder) personalStatement() (Section, string) {
	const title = "Personal Statement"
	content := b.content(types.KindPersonalStatement)
	main, inline := SplitInlineSection(content, "Honors")
	if main == "" {
		main = content
	}

	statement := collapseWhitespace(main)
	if statement == "" {
		return Section{Title: title, Blocks: []Block{placeholder(title)}}, inline
	}
	return Section{Title: title, Blocks: []Block{{Kind: BlockParagraphs, Paragraphs: []string{statement}}}}, inline
}

func (b *builder) honors(inline string) Section {
	const title = "Honors"
	content := b.content(types.KindHonors)
	if content == "" {
		content = inline
	}

	if honors := ParseHonors(content); len(honors) > 0 {
		return Section{Title: title, Blocks: []Block{{Kind: BlockHonors, Honors: honors}}}
	}
	if payload := b.in.Payload.Honors(); len(payload) > 0 {
		honors := make([]Honor, len(payload))
		for i, h := range payload {
			honors[i] = Honor{Year: string(h.Year), Name: h.HonorName}
		}
		return Section{Title: title, Blocks: []Block{{Kind: BlockHonors, Honors: honors}}}
	}
	return Section{Title: title, Blocks: []Block{rawOrPlaceholder(content, title)}}
}

func (b *builder) contributions() Section {
	const title = "Contributions to Science"
	if contributions := payloadContributions(b.in.Payload); len(contributions) > 0 {
		return Section{Title: title, Blocks: []Block{{Kind: BlockContributions, Contributions: contributions}}}
	}
	if contributions := b.in.Data.ContributionsToScience; len(contributions) > 0 {
		return Section{Title: title, Blocks: []Block{{Kind: BlockContributions, Contributions: contributions}}}
	}
	return Section{Title: title, Blocks: []Block{rawOrPlaceholder(b.content(types.KindContributions), title)}}
}

// payloadContributions converts enhancer contributions, or returns nil when
// any of them lacks a description.
func payloadContributions(payload *types.StructuredPayload) []types.ContributionToScience {
	if payload == nil || payload.Supplement == nil || len(payload.Supplement.Contributions) == 0 {
		return nil
	}
	out := make([]types.ContributionToScience, 0, len(payload.Supplement.Contributions))
	for _, c := range payload.Supplement.Contributions {
		description := strings.TrimSpace(c.Description)
		if description == "" {
			return nil
		}
		out = append(out, types.ContributionToScience{
			Description: description,
			Products:    parsing.ParseBlocks(c.Products),
		})
	}
	return out
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
