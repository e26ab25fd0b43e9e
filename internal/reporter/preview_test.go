package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ppiankov/scanissue/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePreview() *Preview {
	milestone := 3
	return &Preview{
		Template:  ".github/ISSUE_TEMPLATE.md",
		Issue:     models.RenderedIssue{Title: "Vulnerabilities found", Body: "## Vulnerabilities\n| a |"},
		Labels:    []string{"security"},
		Milestone: &milestone,
		BySource:  map[string]int{"web/Dockerfile": 2, "api/Dockerfile": 1},
	}
}

func TestJSONReporterGenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf, true).Generate(samplePreview()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	issue := decoded["issue"].(map[string]interface{})
	assert.Equal(t, "Vulnerabilities found", issue["title"])
	assert.Equal(t, float64(3), decoded["milestone"])
	assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
}

func TestTextReporterUnstyled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(&buf, false).Generate(samplePreview()))

	out := buf.String()
	assert.Contains(t, out, "Issue preview (.github/ISSUE_TEMPLATE.md)")
	assert.Contains(t, out, "Title:     Vulnerabilities found")
	assert.Contains(t, out, "Labels:    security")
	assert.Contains(t, out, "Assignees: -")
	assert.Contains(t, out, "Milestone: 3")
	assert.Contains(t, out, "## Vulnerabilities\n| a |")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("api/Dockerfile")), bytes.Index(buf.Bytes(), []byte("web/Dockerfile")))
	assert.NotContains(t, out, "\x1b[")
}
