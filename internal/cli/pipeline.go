package cli

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/actions"
	"github.com/ppiankov/scanissue/internal/aggregator"
	"github.com/ppiankov/scanissue/internal/collector"
	"github.com/ppiankov/scanissue/internal/frontmatter"
	"github.com/ppiankov/scanissue/internal/issue"
	"github.com/ppiankov/scanissue/internal/models"
	"github.com/ppiankov/scanissue/internal/render"
	"github.com/ppiankov/scanissue/internal/reporter"
	"github.com/ppiankov/scanissue/internal/tracker"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Outcome is how a successful run ended.
type Outcome int

const (
	OutcomeNoFindings Outcome = iota
	OutcomeDuplicate
	OutcomeDryRun
	OutcomeCreated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoFindings:
		return "no-findings"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeCreated:
		return "created"
	default:
		return "unknown"
	}
}

// PipelineConfig holds options for a single run.
type PipelineConfig struct {
	Pattern   string
	Template  string
	Overrides issue.Overrides
	DryRun    bool
	Now       time.Time
}

// Draft is the issue a run would submit, before the tracker is involved.
type Draft struct {
	Template string
	Table    *models.SummaryTable
	Document models.TemplateDocument
	Issue    models.RenderedIssue
}

// Request resolves labels, assignees and milestone of the draft.
func (d *Draft) Request(o issue.Overrides) (models.NewIssue, error) {
	return issue.Resolve(d.Template, d.Document, d.Issue, o)
}

// Result is the outcome of Run.
type Result struct {
	Outcome   Outcome
	Draft     *Draft
	Request   models.NewIssue
	Duplicate *models.OpenIssue
	Created   *models.CreatedIssue
}

// Pipeline wires collection, rendering and publishing together. The tracker
// may be nil when only Prepare is used.
type Pipeline struct {
	fs      afero.Fs
	tracker tracker.Tracker
	ci      actions.Context
	environ map[string]string
	logger  *zap.Logger
}

// NewPipeline creates a pipeline reading reports and the template from fs.
func NewPipeline(fs afero.Fs, t tracker.Tracker, ci actions.Context, environ map[string]string, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		fs:      fs,
		tracker: t,
		ci:      ci,
		environ: environ,
		logger:  logger,
	}
}

// Prepare collects the reports and renders the issue. It returns a nil
// draft when there is nothing to report; the template is not read then.
func (p *Pipeline) Prepare(pcfg PipelineConfig) (*Draft, error) {
	findings, err := collector.New(p.fs, p.logger).Collect(pcfg.Pattern)
	if err != nil {
		return nil, err
	}

	table := aggregator.New(p.logger).Aggregate(findings)
	if table.IsEmpty() {
		return nil, nil
	}

	p.logger.Debug("Reading from file", zap.String("template", pcfg.Template))
	data, err := afero.ReadFile(p.fs, pcfg.Template)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to read issue template %s", pcfg.Template),
			"set the template path with --filename or the filename input")
	}

	doc, err := frontmatter.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", pcfg.Template)
	}
	p.logger.Info("Front matter", zap.String("template", pcfg.Template), zap.Any("attributes", doc.Attributes))

	now := pcfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	vars := render.NewContext(p.ci.Vars(), p.environ, now)
	p.logger.Debug("Template context", zap.Strings("variables", vars.Keys()))

	md, err := reporter.MarkdownTable(table.Rows)
	if err != nil {
		return nil, err
	}
	rendered, err := render.New().RenderIssue(doc, md, vars)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Templates compiled",
		zap.String("title", rendered.Title),
		zap.String("body", rendered.Body))

	return &Draft{Template: pcfg.Template, Table: table, Document: doc, Issue: rendered}, nil
}

// Run executes the whole pipeline: prepare, look for an identical open issue
// and create the issue when there is none. Errors from the tracker carry
// issue.ErrTrackerQueryFailed or issue.ErrTrackerCreateFailed.
func (p *Pipeline) Run(ctx context.Context, pcfg PipelineConfig) (*Result, error) {
	draft, err := p.Prepare(pcfg)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		p.logger.Info("No high risk vulnerabilities with fix are found")
		return &Result{Outcome: OutcomeNoFindings}, nil
	}
	if p.tracker == nil {
		return nil, errors.AssertionFailedf("pipeline has no tracker")
	}

	result := &Result{Draft: draft}

	labels := issue.Labels(draft.Document)
	dup, err := issue.NewDetector(p.tracker, p.logger).FindDuplicate(ctx, draft.Issue, labels)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		result.Outcome = OutcomeDuplicate
		result.Duplicate = dup
		return result, nil
	}

	req, err := draft.Request(pcfg.Overrides)
	if err != nil {
		return nil, err
	}
	result.Request = req

	if pcfg.DryRun {
		p.logger.Info("Dry run, not creating issue", zap.String("title", req.Title))
		result.Outcome = OutcomeDryRun
		return result, nil
	}

	created, err := issue.NewPublisher(p.tracker, pcfg.Template, p.logger).Publish(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Outcome = OutcomeCreated
	result.Created = created
	return result, nil
}
