package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ppiankov/scanissue/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownTableSummary(t *testing.T) {
	table := models.NewSummaryTable()
	table.Append(models.Finding{
		Source:           "team-api/Dockerfile",
		PackageName:      "openssl",
		PackageVersion:   "1.1.0",
		Fix:              "1.2.3",
		VulnerabilityID:  "CVE-2021-1",
		VulnerabilityURL: "http://x",
		Severity:         models.SeverityHigh,
	})

	want := strings.Join([]string{
		"| Image source        | Package | Version | Fix   | Vulnerability          | Risk |",
		"|:--------------------|:--------|:--------|:------|:-----------------------|:-----|",
		"| team-api/Dockerfile | openssl | 1.1.0   | 1.2.3 | [CVE-2021-1](http://x) | High |",
	}, "\n")

	got, err := MarkdownTable(table.Rows)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMarkdownTableEscapesPipes(t *testing.T) {
	got, err := MarkdownTable([][]string{
		{"a", "b"},
		{"x|y", "multi\nline"},
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		"| a    | b          |",
		"|:-----|:-----------|",
		`| x\|y | multi line |`,
	}, "\n")
	assert.Equal(t, want, got)
}

func TestMarkdownTableRaggedRows(t *testing.T) {
	got, err := MarkdownTable([][]string{
		{"h1", "h2"},
		{"only"},
	})
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| only |    |", lines[2])
}

func TestMarkdownTableEmpty(t *testing.T) {
	got, err := MarkdownTable(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestMarkdownTableHeaderOnly(t *testing.T) {
	got, err := MarkdownTable(models.NewSummaryTable().Rows)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(got, "\n")+1)
	assert.NotContains(t, got, "IMAGE SOURCE")
}

func TestMarkdownTableUnicodeWidth(t *testing.T) {
	got, err := MarkdownTable([][]string{{"pkg"}, {"größe"}})
	require.NoError(t, err)
	assert.Equal(t, "| pkg   |\n|:------|\n| größe |", got)
}

func TestMarkdownReporterGenerate(t *testing.T) {
	var buf bytes.Buffer
	p := &Preview{Issue: models.RenderedIssue{
		Title: "Vulnerabilities in shop",
		Body:  "## Vulnerabilities\n| a |\n\n",
	}}

	require.NoError(t, NewMarkdownReporter(&buf).Generate(p))
	assert.Equal(t, "# Vulnerabilities in shop\n\n## Vulnerabilities\n| a |\n", buf.String())
}
