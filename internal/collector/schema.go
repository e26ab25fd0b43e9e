package collector

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xeipuuv/gojsonschema"
)

// reportSchemaJSON describes the parts of an Anchore vulnerability report the
// aggregator reads. Unknown fields are allowed.
const reportSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["vulnerabilities"],
  "properties": {
    "vulnerabilities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "severity":        {"type": "string"},
          "fix":             {"type": ["string", "null"]},
          "package_name":    {"type": "string"},
          "package_version": {"type": "string"},
          "vuln":            {"type": "string"},
          "url":             {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var reportSchema = mustCompileSchema(reportSchemaJSON)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("collector: invalid report schema: " + err.Error())
	}
	return schema
}

// ValidateReport checks that data is JSON holding a "vulnerabilities" array of
// objects. Errors are marked ErrInputMalformed.
func ValidateReport(data []byte) error {
	result, err := reportSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to parse Anchore report"), ErrInputMalformed)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return errors.Mark(
			errors.Newf("invalid Anchore report: %s", strings.Join(problems, "; ")),
			ErrInputMalformed)
	}

	return nil
}
