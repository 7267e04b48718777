package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/biosketch-checker/internal/parsing"
)

const preparationTableHeader = "| INSTITUTION AND LOCATION | DEGREE | Start Date (MM/YYYY) | Completion Date (MM/YYYY) | FIELD OF STUDY |\n" +
	"| --- | --- | --- | --- | --- |"

// RenderPlain renders the draft as Markdown-flavoured structured text. Form
// titles and section titles are written as headings the segmenter recognizes,
// so the output can be validated again with the same template. A grouped
// section has no heading of its own; its subheadings take the section level.
func RenderPlain(d *Draft) string {
	var sb strings.Builder
	for i, form := range d.Forms() {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "# %s\n\n", form.Title)
		sb.WriteString(form.OMB)
		sb.WriteString("\n")
		for _, line := range d.HeaderLines() {
			sb.WriteString(line)
			sb.WriteString("\n")
		}

		for _, section := range form.Sections {
			grouped := section.Grouped()
			if !grouped {
				fmt.Fprintf(&sb, "\n## %s\n\n", section.Title)
			}
			for j, block := range section.Blocks {
				switch {
				case grouped:
					fmt.Fprintf(&sb, "\n## %s\n\n", block.Subheading)
				case j > 0:
					sb.WriteString("\n")
				}
				if !grouped && block.Subheading != "" {
					fmt.Fprintf(&sb, "### %s\n\n", block.Subheading)
				}
				sb.WriteString(plainBlock(block))
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

func plainBlock(block Block) string {
	switch block.Kind {
	case BlockParagraphs:
		return strings.Join(block.Paragraphs, "\n\n")

	case BlockPreparation:
		lines := []string{preparationTableHeader}
		for _, row := range block.Preparation {
			lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s | %s |",
				EscapeTableCell(row.InstitutionAndLocation),
				EscapeTableCell(row.Degree),
				EscapeTableCell(row.StartDate),
				EscapeTableCell(row.CompletionDate),
				EscapeTableCell(row.FieldOfStudy)))
		}
		return strings.Join(lines, "\n")

	case BlockAppointments:
		lines := make([]string, len(block.Appointments))
		for i, a := range block.Appointments {
			lines[i] = strings.TrimSpace(a.Timeframe + "  " + a.Position)
		}
		return strings.Join(lines, "\n")

	case BlockPublications:
		lines := make([]string, len(block.Publications))
		for i, pub := range block.Publications {
			lines[i] = fmt.Sprintf("%d. %s", i+1, parsing.FormatCitation(pub))
		}
		return strings.Join(lines, "\n")

	case BlockContributions:
		entries := make([]string, len(block.Contributions))
		for i, c := range block.Contributions {
			entry := fmt.Sprintf("%d. %s", i+1, c.Description)
			if len(c.Products) > 0 {
				products := make([]string, len(c.Products))
				for j, pub := range c.Products {
					products[j] = "- " + parsing.FormatCitation(pub)
				}
				entry += "\n\n" + strings.Join(products, "\n")
			}
			entries[i] = entry
		}
		return strings.Join(entries, "\n\n")

	case BlockHonors:
		lines := make([]string, len(block.Honors))
		for i, h := range block.Honors {
			lines[i] = h.Line()
		}
		return strings.Join(lines, "\n")

	case BlockCertification:
		text := block.Certification
		if text == "" {
			text = "*" + block.Placeholder + "*"
		}
		return text + "\n\n" + fmt.Sprintf("Certified by %s in SciENcv on %s", block.SignedBy, block.SignedOn)

	case BlockPlaceholder:
		return "*" + block.Placeholder + "*"
	}
	return ""
}
