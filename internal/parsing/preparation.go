package parsing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/biosketch-checker/internal/types"
)

var (
	dateRangeRegex   = regexp.MustCompile(`(\d{2}/\d{4})\s*[-–]\s*(\d{2}/\d{4})`)
	columnSplitRegex = regexp.MustCompile(`\s{2,}`)
	trailingSepRegex = regexp.MustCompile(`[\s,;:.\-–]+$`)
	leadingSepRegex  = regexp.MustCompile(`^[\s,;:.\-–]+`)
)

// minColumns is the fewest non-empty columns a tabular row may have.
const minColumns = 4

// ParseProfessionalPreparation extracts education records, one per line.
// Lines are read as columns first (tabs, else runs of two or more spaces) and
// as comma-separated text otherwise. Records missing institution, degree or
// either date are dropped. The result is ordered by start date, most recent
// first; equal start dates keep their input order.
func ParseProfessionalPreparation(content string) []types.ProfessionalPreparation {
	var records []types.ProfessionalPreparation
	for _, raw := range newlineRegex.Split(content, -1) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		record, ok := parseColumns(line)
		if !ok {
			record, ok = parseCommaLine(line)
		}
		if ok && complete(record) {
			records = append(records, record)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return startKey(records[i].StartDate) > startKey(records[j].StartDate)
	})
	return records
}

func splitColumns(line string) []string {
	var parts []string
	if strings.Contains(line, "\t") {
		parts = strings.Split(line, "\t")
	} else {
		parts = columnSplitRegex.Split(line, -1)
	}
	columns := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			columns = append(columns, part)
		}
	}
	return columns
}

func parseColumns(line string) (types.ProfessionalPreparation, bool) {
	columns := splitColumns(line)
	if len(columns) < minColumns {
		return types.ProfessionalPreparation{}, false
	}

	dateIndex := -1
	for i := 2; i < len(columns); i++ {
		if dateRangeRegex.MatchString(columns[i]) {
			dateIndex = i
			break
		}
	}
	if dateIndex < 0 {
		return types.ProfessionalPreparation{}, false
	}

	dates := dateRangeRegex.FindStringSubmatch(columns[dateIndex])
	return types.ProfessionalPreparation{
		Institution:    columns[0],
		Location:       strings.Join(columns[1:dateIndex-1], ", "),
		Degree:         columns[dateIndex-1],
		StartDate:      dates[1],
		CompletionDate: dates[2],
		FieldOfStudy:   strings.Join(columns[dateIndex+1:], " "),
	}, true
}

func parseCommaLine(line string) (types.ProfessionalPreparation, bool) {
	loc := dateRangeRegex.FindStringSubmatchIndex(line)
	if loc == nil {
		return types.ProfessionalPreparation{}, false
	}

	before := trailingSepRegex.ReplaceAllString(line[:loc[0]], "")
	var parts []string
	for _, part := range strings.Split(before, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) < 2 {
		return types.ProfessionalPreparation{}, false
	}

	last := len(parts) - 1
	return types.ProfessionalPreparation{
		Institution:    parts[0],
		Location:       strings.Join(parts[1:last], ", "),
		Degree:         parts[last],
		StartDate:      line[loc[2]:loc[3]],
		CompletionDate: line[loc[4]:loc[5]],
		FieldOfStudy:   strings.TrimSpace(leadingSepRegex.ReplaceAllString(line[loc[1]:], "")),
	}, true
}

func complete(r types.ProfessionalPreparation) bool {
	return r.Institution != "" && r.Degree != "" && r.StartDate != "" && r.CompletionDate != ""
}

// startKey orders MM/YYYY dates as YYYYMM.
func startKey(date string) int {
	month, year, ok := strings.Cut(date, "/")
	if !ok {
		return 0
	}
	m, _ := strconv.Atoi(month)
	y, _ := strconv.Atoi(year)
	return y*100 + m
}
