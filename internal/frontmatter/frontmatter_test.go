package frontmatter

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: Vulnerabilities {{ .date | date \"2006-01-02\" }}\nlabels: security, anchore\nassignees:\n  - alice\n  - bob\nmilestone: 4\n---\n## Vulnerabilities\nbody\n"))
	require.NoError(t, err)

	assert.Equal(t, `Vulnerabilities {{ .date | date "2006-01-02" }}`, doc.Attributes[models.AttrTitle])
	assert.Equal(t, "security, anchore", doc.Attributes[models.AttrLabels])
	assert.Equal(t, []interface{}{"alice", "bob"}, doc.Attributes[models.AttrAssignees])
	assert.Equal(t, 4, doc.Attributes[models.AttrMilestone])
	assert.Equal(t, "## Vulnerabilities\nbody\n", doc.Body)
}

func TestParseNoFrontMatter(t *testing.T) {
	text := "## Vulnerabilities\n---\nnot: attributes\n---\n"
	doc, err := Parse([]byte(text))
	require.NoError(t, err)
	assert.Empty(t, doc.Attributes)
	assert.NotNil(t, doc.Attributes)
	assert.Equal(t, text, doc.Body)
}

func TestParseUnclosed(t *testing.T) {
	text := "---\ntitle: x\nbody without closing fence"
	doc, err := Parse([]byte(text))
	require.NoError(t, err)
	assert.Empty(t, doc.Attributes)
	assert.Equal(t, text, doc.Body)
}

func TestParseVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		title interface{}
		body  string
	}{
		{"crlf", "---\r\ntitle: Win\r\n---\r\nbody\r\n", "Win", "body\r\n"},
		{"bom", "\ufeff---\ntitle: Bom\n---\nbody", "Bom", "body"},
		{"dots closing", "---\ntitle: Dots\n...\nbody", "Dots", "body"},
		{"no body", "---\ntitle: Empty\n---", "Empty", ""},
		{"trailing spaces on fence", "---\ntitle: Sp\n---  \nbody", "Sp", "body"},
		{"empty block", "---\n---\nbody", nil, "body"},
		{"leading blank lines", "\n\n---\ntitle: Late\n---\nbody", "Late", "body"},
		{"indented fences", "  ---\ntitle: Ind\n  ---\nbody", "Ind", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.title, doc.Attributes[models.AttrTitle])
			assert.Equal(t, tt.body, doc.Body)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := map[string]string{
		"bad yaml":   "---\ntitle: [unclosed\n---\nbody",
		"not a map":  "---\n- a\n- b\n---\nbody",
		"bare value": "---\njust text\n---\nbody",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}
