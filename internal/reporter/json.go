package reporter

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/scanissue/internal/models"
)

// Preview is everything a run would submit, without submitting it.
type Preview struct {
	Template  string               `json:"template"`
	Issue     models.RenderedIssue `json:"issue"`
	Labels    []string             `json:"labels"`
	Assignees []string             `json:"assignees"`
	Milestone *int                 `json:"milestone,omitempty"`
	Findings  []models.Finding     `json:"findings"`
	BySource  map[string]int       `json:"by_source"`
}

// JSONReporter generates machine-readable JSON previews
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		pretty: pretty,
	}
}

// Generate writes p as JSON
func (r *JSONReporter) Generate(p *Preview) error {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(p, "", "  ")
	} else {
		data, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = r.writer.Write(data)
	if err != nil {
		return err
	}

	// Add trailing newline for terminal output
	_, err = r.writer.Write([]byte("\n"))
	return err
}
