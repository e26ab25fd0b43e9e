package issue

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/models"
	"github.com/ppiankov/scanissue/internal/tracker"
	"go.uber.org/zap"
)

// Overrides are explicit inputs that take precedence over front matter.
type Overrides struct {
	Assignees string
	Milestone string
}

// Publisher creates the tracking issue.
type Publisher struct {
	tracker  tracker.Tracker
	logger   *zap.Logger
	template string
}

// NewPublisher creates a publisher. template names the issue template in
// failure hints.
func NewPublisher(t tracker.Tracker, template string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{tracker: t, logger: logger, template: template}
}

// Resolve builds the create request: labels come from front matter, while
// assignees and milestone come from overrides when set. template names the
// issue template in failure hints.
func Resolve(template string, doc models.TemplateDocument, rendered models.RenderedIssue, o Overrides) (models.NewIssue, error) {
	req := models.NewIssue{
		Title:  rendered.Title,
		Body:   rendered.Body,
		Labels: Labels(doc),
	}

	if strings.TrimSpace(o.Assignees) != "" {
		req.Assignees = models.ListToArray(o.Assignees)
	} else {
		req.Assignees = models.ListToArray(doc.Attributes[models.AttrAssignees])
	}

	var milestone interface{} = doc.Attributes[models.AttrMilestone]
	if strings.TrimSpace(o.Milestone) != "" {
		milestone = o.Milestone
	}
	number, err := ParseMilestone(milestone)
	if err != nil {
		return models.NewIssue{}, errors.WithHintf(err,
			"This might be caused by a malformed milestone number. Check %s!", template)
	}
	req.Milestone = number

	return req, nil
}

// Labels returns the label list of doc.
func Labels(doc models.TemplateDocument) []string {
	return models.ListToArray(doc.Attributes[models.AttrLabels])
}

// ParseMilestone converts a milestone attribute or input into a milestone
// number. nil and "" mean no milestone.
func ParseMilestone(v interface{}) (*int, error) {
	var n int
	switch val := v.(type) {
	case nil:
		return nil, nil
	case int:
		n = val
	case int64:
		n = int(val)
	case uint64:
		n = int(val)
	case float64:
		if val != math.Trunc(val) {
			return nil, malformedMilestone(v)
		}
		n = int(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return nil, malformedMilestone(v)
		}
		n = parsed
	default:
		return nil, malformedMilestone(v)
	}

	if n <= 0 {
		return nil, malformedMilestone(v)
	}
	return &n, nil
}

func malformedMilestone(v interface{}) error {
	return errors.Mark(
		errors.Newf("milestone must be a positive milestone number, got %q", fmt.Sprint(v)),
		ErrTrackerCreateFailed)
}

// Publish submits req. Failures are marked ErrTrackerCreateFailed and carry a
// hint pointing at the template.
func (p *Publisher) Publish(ctx context.Context, req models.NewIssue) (*models.CreatedIssue, error) {
	p.logger.Info("Creating new issue",
		zap.String("title", req.Title),
		zap.Strings("labels", req.Labels),
		zap.Strings("assignees", req.Assignees))

	created, err := p.tracker.CreateIssue(ctx, req)
	if err != nil {
		err = withTrackerDetails(errors.Wrap(err, "An error occurred while creating the issue"))
		err = errors.WithHintf(err,
			"This might be caused by a malformed issue title, or a typo in the labels or assignees. Check %s!",
			p.template)
		return nil, errors.Mark(err, ErrTrackerCreateFailed)
	}

	p.logger.Info("Created issue",
		zap.String("title", created.Title),
		zap.Int("number", created.Number),
		zap.String("url", created.URL))

	return created, nil
}
