package cli

import (
	"io"
	"os"

	"github.com/ppiankov/scanissue/internal/actions"
	"github.com/ppiankov/scanissue/internal/reporter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var previewFormat string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the issue without contacting GitHub",
	Long: `Preview collects the reports and renders the issue template exactly as run
would, then prints the title, labels, assignees, milestone and body.

No token is needed and nothing is created.

Example:
  scanissue preview --filename .github/ISSUE_TEMPLATE.md
  scanissue preview --format json | jq .issue.title
  scanissue preview --format markdown > issue.md`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	addInputFlags(previewCmd)
	addOverrideFlags(previewCmd)
	previewCmd.Flags().StringVar(&previewFormat, "format", "text",
		"output format: text, json or markdown")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ci := loadCIContext()
	if repo, err := resolveRepo(); err == nil {
		ci = ci.WithRepo(repo.Owner, repo.Name)
		logVerbose("Previewing for repository", zap.String("repository", ci.Repository()))
	} else {
		logDebug("Previewing without a repository", zap.Error(err))
	}

	p := NewPipeline(afero.NewOsFs(), nil, ci, actions.Environ(os.Environ()), log())
	pcfg := pipelineConfig()

	draft, err := p.Prepare(pcfg)
	if err != nil {
		return err
	}
	if draft == nil {
		_, err := io.WriteString(cmd.OutOrStdout(), "No high risk vulnerabilities with fix are found\n")
		return err
	}

	req, err := draft.Request(pcfg.Overrides)
	if err != nil {
		return err
	}

	preview := &reporter.Preview{
		Template:  pcfg.Template,
		Issue:     draft.Issue,
		Labels:    req.Labels,
		Assignees: req.Assignees,
		Milestone: req.Milestone,
		Findings:  draft.Table.Findings(),
		BySource:  draft.Table.CountBySource(),
	}

	return generatePreview(cmd.OutOrStdout(), preview, previewFormat)
}

// generatePreview writes p in format. Text output is styled only when w is a
// terminal.
func generatePreview(w io.Writer, p *reporter.Preview, format string) error {
	switch format {
	case "text":
		return reporter.NewTextReporter(w, isTerminal(w)).Generate(p)
	case "json":
		return reporter.NewJSONReporter(w, true).Generate(p)
	case "markdown":
		return reporter.NewMarkdownReporter(w).Generate(p)
	default:
		return &UsageError{Message: "unsupported format: " + format + " (use text, json or markdown)"}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
