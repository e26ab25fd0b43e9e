package collector

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/models"
)

// ParseReport validates data against the Anchore report schema and decodes it.
// Both failures are marked ErrInputMalformed.
func ParseReport(data []byte) (*models.ScanReport, error) {
	if err := ValidateReport(data); err != nil {
		return nil, err
	}

	var report models.ScanReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to parse Anchore report"), ErrInputMalformed)
	}

	return &report, nil
}
