package rendering

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/biosketch-checker/internal/types"
)

var (
	lineRegex          = regexp.MustCompile(`\r?\n`)
	listMarkerRegex    = regexp.MustCompile(`^(\d+[\).]|[-*])\s+`)
	yearRangeRegex     = regexp.MustCompile(`(?i)(\d{4})\s*-\s*(\d{4}|present|current)`)
	leadingYearRegex   = regexp.MustCompile(`^(\d{4})\b\s*(.*)$`)
	bareYearRegex      = regexp.MustCompile(`^\d{4}$`)
	honorSepRegex      = regexp.MustCompile(`^[-–:,]\s*`)
	degreeKeywordRegex = regexp.MustCompile(`(?i)\b(phd|dphil|md|dds|dmd|dvm|mph|ms|msc|ma|mba|bs|ba|bsc|bfa|beng|jd|pharmd|postdoc|postdoctoral|fellowship|doctor|master|bachelor)\b`)
	institutionRegex   = regexp.MustCompile(`(?i)\b(university|college|institute|school|center|centre|hospital)\b`)
	dateOnlyRegex      = regexp.MustCompile(`[^0-9/\s-]`)
	strictRangeRegex   = regexp.MustCompile(`(\d{2}/\d{4})\s*-\s*(\d{2}/\d{4})`)
	looseRangeRegex    = regexp.MustCompile(`(\d{2}/\d{4}).*?(\d{2}/\d{4})`)
	nonDateCharRegex   = regexp.MustCompile(`[^0-9/]`)
	remainderRegex     = regexp.MustCompile(`[^A-Za-z0-9,.;:/() -]+`)
	inlineStopRegex    = regexp.MustCompile(`(?i)^(personal statement|contributions? to science|products|appointments and positions|professional preparation|certification|honors)\b`)
	certNoiseRegex     = regexp.MustCompile(`(?i)^(certified by\b|nih biographical sketch\b|omb no\.)`)
	nameLabelRegex     = regexp.MustCompile(`(?i)^name\b`)
	pidLabelRegex      = regexp.MustCompile(`(?i)^(pid|orcid|era commons user name|era commons)\b`)
	positionLabelRegex = regexp.MustCompile(`(?i)^(position title|title)\b`)
	orgLabelRegex      = regexp.MustCompile(`(?i)^(organization|organization/location|location)\b`)
)

// coreCertificationSentence opens the certification statement.
const coreCertificationSentence = "I certify that the information provided is current, accurate, and complete."

func nonEmptyLines(content string) []string {
	var lines []string
	for _, raw := range lineRegex.Split(content, -1) {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ExtractHeader reads "Label: value" lines from the first non-empty header
// content. Fields whose label is absent stay empty.
func ExtractHeader(contents ...string) types.HeaderInfo {
	var lines []string
	for _, content := range contents {
		if strings.TrimSpace(content) != "" {
			lines = nonEmptyLines(content)
			break
		}
	}

	value := func(label *regexp.Regexp) string {
		for _, line := range lines {
			if !label.MatchString(line) {
				continue
			}
			if _, rest, ok := strings.Cut(line, ":"); ok {
				return strings.TrimSpace(rest)
			}
			if _, rest, ok := strings.Cut(line, " - "); ok {
				return strings.TrimSpace(rest)
			}
			return ""
		}
		return ""
	}

	return types.HeaderInfo{
		Name:          value(nameLabelRegex),
		PID:           value(pidLabelRegex),
		PositionTitle: value(positionLabelRegex),
		Organization:  value(orgLabelRegex),
	}
}

// ParseAppointments groups lines into entries that start at a year range and
// orders them by end year (Present/Current last ending), then start year,
// both descending, then input order.
func ParseAppointments(content string) []Appointment {
	type entry struct {
		start, end string
		rest       string
		index      int
	}

	var texts []string
	current := ""
	for _, line := range nonEmptyLines(content) {
		line = listMarkerRegex.ReplaceAllString(line, "")
		if yearRangeRegex.MatchString(line) && current != "" {
			texts = append(texts, strings.TrimSpace(current))
			current = line
			continue
		}
		if current == "" {
			current = line
		} else {
			current += " " + line
		}
	}
	if current != "" {
		texts = append(texts, strings.TrimSpace(current))
	}

	entries := make([]entry, len(texts))
	for i, text := range texts {
		e := entry{rest: text, index: i}
		if m := yearRangeRegex.FindStringSubmatchIndex(text); m != nil {
			e.start = text[m[2]:m[3]]
			e.end = text[m[4]:m[5]]
			e.rest = strings.TrimSpace(text[:m[0]] + text[m[1]:])
			e.rest = strings.TrimSpace(strings.TrimLeft(e.rest, ",;:"))
		}
		entries[i] = e
	}

	yearValue := func(year string) int {
		switch strings.ToLower(year) {
		case "present", "current":
			return 9999
		}
		n, _ := strconv.Atoi(year)
		return n
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if ae, be := yearValue(a.end), yearValue(b.end); ae != be {
			return ae > be
		}
		if as, bs := yearValue(a.start), yearValue(b.start); as != bs {
			return as > bs
		}
		return a.index < b.index
	})

	out := make([]Appointment, len(entries))
	for i, e := range entries {
		out[i] = Appointment{Position: e.rest}
		if e.start != "" && e.end != "" {
			out[i].Timeframe = e.start + " - " + e.end
		}
	}
	return out
}

// ParseHonors reads "YYYY honor" lines. A line without a leading year
// continues the previous honor.
func ParseHonors(content string) []Honor {
	var honors []Honor
	var year, name string

	flush := func() {
		if year != "" || name != "" {
			honors = append(honors, Honor{Year: strings.TrimSpace(year), Name: strings.TrimSpace(name)})
		}
		year, name = "", ""
	}

	for _, line := range nonEmptyLines(content) {
		line = listMarkerRegex.ReplaceAllString(line, "")
		if m := leadingYearRegex.FindStringSubmatch(line); m != nil {
			flush()
			year = m[1]
			name = honorSepRegex.ReplaceAllString(strings.TrimSpace(m[2]), "")
			continue
		}
		if year == "" && bareYearRegex.MatchString(line) {
			flush()
			year = line
			continue
		}
		if name == "" {
			name = line
		} else {
			name += " " + line
		}
	}
	flush()
	return honors
}

// SplitInlineSection pulls a block that starts at a line equal to heading out
// of content. The block ends at the next known section heading.
func SplitInlineSection(content, heading string) (main, extracted string) {
	if strings.TrimSpace(content) == "" {
		return content, ""
	}
	lines := lineRegex.Split(content, -1)
	target := strings.ToLower(strings.TrimSpace(heading))

	start := -1
	for i, line := range lines {
		if strings.ToLower(strings.TrimSpace(line)) == target {
			start = i
			break
		}
	}
	if start < 0 {
		return content, ""
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if inlineStopRegex.MatchString(strings.TrimSpace(lines[i])) {
			end = i
			break
		}
	}
	main = strings.TrimSpace(strings.Join(lines[:start], "\n"))
	extracted = strings.TrimSpace(strings.Join(lines[start+1:end], "\n"))
	return main, extracted
}

// NormalizeCertification returns the certification text to print. The exact
// statement wins when present or when there is no content; otherwise form
// boilerplate is dropped and repeated statements are reduced to one.
func NormalizeCertification(content, exact string) string {
	trimmed := strings.TrimSpace(content)
	if exact != "" && (trimmed == "" || strings.Contains(collapseWhitespace(trimmed), collapseWhitespace(exact))) {
		return exact
	}
	if trimmed == "" {
		return ""
	}

	var kept []string
	for _, line := range lineRegex.Split(trimmed, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			kept = append(kept, "")
			continue
		}
		if certNoiseRegex.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	normalized := strings.TrimSpace(strings.Join(kept, "\n"))

	if first := strings.Index(normalized, coreCertificationSentence); first >= 0 {
		next := strings.Index(normalized[first+len(coreCertificationSentence):], coreCertificationSentence)
		if next >= 0 {
			return strings.TrimSpace(normalized[first : first+len(coreCertificationSentence)+next])
		}
	}

	seen := make(map[string]bool)
	var unique []string
	for _, part := range splitParagraphs(normalized) {
		if seen[part] {
			continue
		}
		seen[part] = true
		unique = append(unique, part)
	}
	return strings.Join(unique, "\n\n")
}

type dateRange struct {
	start, end string
}

func findDateRange(text string) (dateRange, bool) {
	cleaned := dateOnlyRegex.ReplaceAllString(text, "")
	m := strictRangeRegex.FindStringSubmatch(cleaned)
	if m == nil {
		m = looseRangeRegex.FindStringSubmatch(cleaned)
	}
	if m == nil {
		return dateRange{}, false
	}
	return dateRange{start: m[1], end: m[2]}, true
}

func isTableHeader(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "institution") && strings.Contains(lower, "degree") && strings.Contains(lower, "field")
}

// RecoverPreparationRows reads table rows from preparation content the parser
// could not turn into records. Five-column rows are taken as they are; failing
// that, lines are grouped into entries that each carry a date range.
func RecoverPreparationRows(content string) []PreparationRow {
	lines := nonEmptyLines(content)
	if len(lines) == 0 {
		return nil
	}

	var rows []PreparationRow
	for _, line := range lines {
		columns := splitTableColumns(line)
		if len(columns) < 5 || isTableHeader(line) {
			continue
		}
		rows = append(rows, PreparationRow{
			InstitutionAndLocation: columns[0],
			Degree:                 columns[1],
			StartDate:              nonDateCharRegex.ReplaceAllString(columns[2], ""),
			CompletionDate:         nonDateCharRegex.ReplaceAllString(columns[3], ""),
			FieldOfStudy:           strings.Join(columns[4:], " "),
		})
	}
	if len(rows) > 0 {
		return rows
	}

	var groups [][]string
	var current []string
	hasDates := false
	for _, line := range lines {
		if isTableHeader(line) {
			continue
		}
		if len(current) > 0 && hasDates && institutionRegex.MatchString(line) {
			groups = append(groups, current)
			current = nil
			hasDates = false
		}
		current = append(current, line)
		if _, ok := findDateRange(line); ok {
			hasDates = true
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	for _, group := range groups {
		if row, ok := groupToRow(group); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func groupToRow(group []string) (PreparationRow, bool) {
	dateLine := -1
	for i, line := range group {
		if _, ok := findDateRange(line); ok {
			dateLine = i
			break
		}
	}
	if dateLine < 0 {
		return PreparationRow{}, false
	}

	degreeLine := -1
	for i, line := range group {
		if degreeKeywordRegex.MatchString(line) && !institutionRegex.MatchString(line) {
			degreeLine = i
			break
		}
	}

	institution := group[:dateLine]
	var degree []string
	if degreeLine > -1 {
		institution = group[:degreeLine]
		if degreeLine < dateLine {
			degree = group[degreeLine:dateLine]
		}
	}

	dateText := strings.Join(group[dateLine:], " ")
	dates, ok := findDateRange(dateText)
	if !ok {
		return PreparationRow{}, false
	}

	remainder := strings.Replace(dateText, dates.start, "", 1)
	remainder = strings.Replace(remainder, dates.end, "", 1)
	remainder = strings.Replace(remainder, "-", "", 1)
	remainder = strings.TrimSpace(remainderRegex.ReplaceAllString(strings.TrimSpace(remainder), ""))

	return PreparationRow{
		InstitutionAndLocation: strings.TrimSpace(strings.Join(institution, " ")),
		Degree:                 strings.TrimSpace(strings.Join(degree, " ")),
		StartDate:              dates.start,
		CompletionDate:         dates.end,
		FieldOfStudy:           remainder,
	}, true
}

var tableColumnRegex = regexp.MustCompile(`\s{2,}`)

func splitTableColumns(line string) []string {
	var parts []string
	if strings.Contains(line, "\t") {
		parts = strings.Split(line, "\t")
	} else {
		parts = tableColumnRegex.Split(line, -1)
	}
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			columns = append(columns, p)
		}
	}
	return columns
}
