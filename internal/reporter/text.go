package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// TextReporter generates a human-readable preview of the issue a run would
// create. Styling is applied only when styled is true.
type TextReporter struct {
	writer io.Writer
	styled bool
}

// NewTextReporter creates a new text reporter
func NewTextReporter(writer io.Writer, styled bool) *TextReporter {
	return &TextReporter{
		writer: writer,
		styled: styled,
	}
}

// Generate prints the preview.
func (r *TextReporter) Generate(p *Preview) error {
	r.printf("%s\n\n", r.style(headingStyle, "Issue preview ("+p.Template+")"))

	r.printf("%s %s\n", r.style(labelStyle, "Title:    "), r.style(titleStyle, p.Issue.Title))
	r.printf("%s %s\n", r.style(labelStyle, "Labels:   "), joinOrDash(p.Labels))
	r.printf("%s %s\n", r.style(labelStyle, "Assignees:"), joinOrDash(p.Assignees))
	if p.Milestone != nil {
		r.printf("%s %d\n", r.style(labelStyle, "Milestone:"), *p.Milestone)
	}

	if len(p.BySource) > 0 {
		r.printf("\n%s\n", r.style(headingStyle, "Findings by image:"))
		sources := make([]string, 0, len(p.BySource))
		for source := range p.BySource {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			r.printf("  %s: %d\n", source, p.BySource[source])
		}
	}

	r.printf("\n%s\n%s\n", r.style(headingStyle, "Body:"), p.Issue.Body)
	return nil
}

func (r *TextReporter) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func (r *TextReporter) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.writer, format, args...)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
