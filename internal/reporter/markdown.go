package reporter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// MarkdownTable renders rows as a GitHub pipe table. The first row is the
// header. Columns are left aligned, line breaks inside a cell become spaces
// and "|" is escaped. The result has no trailing newline.
func MarkdownTable(rows [][]string) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(tw.MakeAlign(columns, tw.AlignLeft)),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeaderAutoWrap(tw.WrapNone),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)

	table.Header(escapeRow(rows[0], columns))
	for _, row := range rows[1:] {
		if err := table.Append(escapeRow(row, columns)); err != nil {
			return "", errors.Wrap(err, "failed to append table row")
		}
	}
	if err := table.Render(); err != nil {
		return "", errors.Wrap(err, "failed to render table")
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

func escapeRow(row []string, columns int) []string {
	cells := make([]string, columns)
	for i, cell := range row {
		cells[i] = escapeCell(cell)
	}
	return cells
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// MarkdownReporter writes the issue as it would be posted: the title as a
// heading followed by the rendered body.
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new markdown reporter
func NewMarkdownReporter(writer io.Writer) *MarkdownReporter {
	return &MarkdownReporter{
		writer: writer,
	}
}

// Generate writes p as a markdown document ending in a newline.
func (r *MarkdownReporter) Generate(p *Preview) error {
	body := strings.TrimRight(p.Issue.Body, "\n")
	_, err := fmt.Fprintf(r.writer, "# %s\n\n%s\n", p.Issue.Title, body)
	return err
}
