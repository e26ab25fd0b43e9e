package issue

import (
	"context"
	"encoding/base64"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/models"
	"github.com/ppiankov/scanissue/internal/tracker"
	"go.uber.org/zap"
)

// Detector finds open issues that already carry a rendered body.
type Detector struct {
	tracker tracker.Tracker
	logger  *zap.Logger
}

// NewDetector creates a detector querying t.
func NewDetector(t tracker.Tracker, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{tracker: t, logger: logger}
}

// FindDuplicate lists open issues carrying labels and returns the first whose
// body is identical to candidate's body, or nil when a new issue is needed.
// Titles are not compared. Listing errors are marked ErrTrackerQueryFailed.
func (d *Detector) FindDuplicate(ctx context.Context, candidate models.RenderedIssue, labels []string) (*models.OpenIssue, error) {
	open, err := d.tracker.ListOpenIssues(ctx, labels)
	if err != nil {
		return nil, errors.Mark(withTrackerDetails(errors.Wrap(err, "Error reading issues")), ErrTrackerQueryFailed)
	}

	d.logger.Info("Fetched open issues",
		zap.Int("count", len(open)),
		zap.Strings("labels", labels))

	for i := range open {
		if SameBody(open[i].Body, candidate.Body) {
			return &open[i], nil
		}
	}
	return nil, nil
}

// SameBody reports whether two issue bodies are byte-for-byte identical.
func SameBody(a, b string) bool {
	return encode(a) == encode(b)
}

func encode(body string) string {
	return base64.StdEncoding.EncodeToString([]byte(body))
}
