// Package frontmatter splits an issue template into its YAML front matter and
// its markdown body.
package frontmatter

import (
	"bytes"

	fm "github.com/adrg/frontmatter"
	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrMalformed marks a template whose front matter is not a YAML mapping.
var ErrMalformed = errors.New("malformed front matter")

var bom = []byte("\ufeff")

// Both formats open with "---". They are tried in order, so a block that
// contains a "---" line is closed there even if a "..." line comes first.
var formats = []*fm.Format{
	fm.NewFormat("---", "---", decodeYAML),
	fm.NewFormat("---", "...", decodeYAML),
}

// Parse splits data into attributes and body. A document whose first
// non-blank line is not "---", or whose block is never closed, has no front
// matter: the attributes are empty and the whole text is the body. The
// closing fence may be "---" or "...". The line break after the closing
// fence is not part of the body.
func Parse(data []byte) (models.TemplateDocument, error) {
	data = bytes.TrimPrefix(data, bom)

	for _, format := range formats {
		attrs := map[string]interface{}{}
		body, err := fm.MustParse(bytes.NewReader(data), &attrs, format)
		if errors.Is(err, fm.ErrNotFound) {
			continue
		}
		if err != nil {
			return models.TemplateDocument{}, errors.Mark(err, ErrMalformed)
		}
		if attrs == nil {
			attrs = map[string]interface{}{}
		}
		return models.TemplateDocument{Attributes: attrs, Body: string(body)}, nil
	}

	return models.TemplateDocument{
		Attributes: map[string]interface{}{},
		Body:       string(data),
	}, nil
}

func decodeYAML(data []byte, v interface{}) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "failed to parse front matter")
	}
	return nil
}
