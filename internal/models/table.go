package models

// SummaryHeader is the constant first row of every SummaryTable.
var SummaryHeader = []string{"Image source", "Package", "Version", "Fix", "Vulnerability", "Risk"}

// SummaryTable holds the actionable findings of a run, header first.
// Rows keep discovery order; they are never sorted.
type SummaryTable struct {
	Rows [][]string `json:"rows"`

	findings []Finding
}

// NewSummaryTable returns a table holding only the header row.
func NewSummaryTable() *SummaryTable {
	header := make([]string, len(SummaryHeader))
	copy(header, SummaryHeader)
	return &SummaryTable{Rows: [][]string{header}}
}

// Append adds f as a data row.
func (t *SummaryTable) Append(f Finding) {
	t.findings = append(t.findings, f)
	t.Rows = append(t.Rows, []string{
		f.Source,
		f.PackageName,
		f.PackageVersion,
		f.Fix,
		f.Link(),
		string(f.Severity),
	})
}

// Len returns the number of data rows, excluding the header.
func (t *SummaryTable) Len() int {
	return len(t.Rows) - 1
}

// IsEmpty reports whether the table holds only its header.
func (t *SummaryTable) IsEmpty() bool {
	return t.Len() == 0
}

// Findings returns the findings behind the data rows, in row order.
func (t *SummaryTable) Findings() []Finding {
	out := make([]Finding, len(t.findings))
	copy(out, t.findings)
	return out
}

// CountBySource returns the number of data rows per image source.
func (t *SummaryTable) CountBySource() map[string]int {
	counts := make(map[string]int)
	for _, f := range t.findings {
		counts[f.Source]++
	}
	return counts
}
