package aggregator

import (
	"github.com/ppiankov/scanissue/internal/models"
	"go.uber.org/zap"
)

// Aggregator turns collected findings into the summary table of a run.
type Aggregator struct {
	logger *zap.Logger
}

// New creates a new aggregator. A nil logger disables logging.
func New(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		logger: logger,
	}
}

// Aggregate keeps the actionable findings and tabulates them in input order.
func (a *Aggregator) Aggregate(findings []models.Finding) *models.SummaryTable {
	table := models.NewSummaryTable()

	for _, f := range Filter(findings) {
		table.Append(f)
	}

	a.logger.Debug("Aggregated findings",
		zap.Int("collected", len(findings)),
		zap.Int("actionable", table.Len()))

	for source, count := range table.CountBySource() {
		a.logger.Debug("Actionable findings per image",
			zap.String("source", source),
			zap.Int("count", count))
	}

	return table
}

// Filter returns the findings that are High severity and have a fix, keeping
// their relative order.
func Filter(findings []models.Finding) []models.Finding {
	var out []models.Finding
	for _, f := range findings {
		if f.IsActionable() {
			out = append(out, f)
		}
	}
	return out
}
