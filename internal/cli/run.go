package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/actions"
	"github.com/ppiankov/scanissue/internal/issue"
	"github.com/ppiankov/scanissue/internal/tracker"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Aggregate reports and open a GitHub issue for them",
	Long: `Run performs a full cycle:

  1. Collect: read every report matching --report-files-pattern
  2. Aggregate: keep High severity findings that have a fix
  3. Render: fill the issue template with the findings table
  4. Dedupe: look for an open issue with an identical body
  5. Publish: create the issue and set the number and url outputs

A run without actionable findings, or with an identical open issue, succeeds
without creating anything. Use --dry-run to stop before step 5.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
}

// addInputFlags registers the flags selecting the reports and template.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("filename", "",
		"issue template (default: .github/ISSUE_TEMPLATE.md)")
	cmd.Flags().String("report-files-pattern", "",
		"glob selecting Anchore reports (default: ./anchore-reports/scan_*.json)")
}

// addOverrideFlags registers the flags overriding front matter.
func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().String("assignees", "",
		"comma separated assignees, overriding the template")
	cmd.Flags().String("milestone", "",
		"milestone number, overriding the template")
}

func addRunFlags(cmd *cobra.Command) {
	addInputFlags(cmd)
	addOverrideFlags(cmd)
	cmd.Flags().String("repo", "",
		"target repository owner/name (default: GITHUB_REPOSITORY or the origin remote)")
	cmd.Flags().Bool("dry-run", false,
		"check for duplicates but do not create the issue")
}

func pipelineConfig() PipelineConfig {
	return PipelineConfig{
		Pattern:  cfg.ReportFilesPattern,
		Template: cfg.Filename,
		Overrides: issue.Overrides{
			Assignees: cfg.Assignees,
			Milestone: cfg.Milestone,
		},
		DryRun: cfg.DryRun,
	}
}

func loadCIContext() actions.Context {
	return actions.LoadContext(os.Getenv, afero.NewOsFs(), log())
}

// resolveRepo picks the target repository: configured value first, then the
// origin remote of the current checkout.
func resolveRepo() (tracker.Repo, error) {
	if cfg.Repository != "" {
		return tracker.ParseRepo(cfg.Repository)
	}

	name, err := actions.RepoFromGit(".")
	if err != nil {
		return tracker.Repo{}, errors.WithHint(
			errors.Wrap(err, "cannot determine the target repository"),
			"set GITHUB_REPOSITORY or pass --repo owner/name")
	}
	logVerbose("Using repository from git remote", zap.String("repository", name))
	return tracker.ParseRepo(name)
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	repo, err := resolveRepo()
	if err != nil {
		return err
	}

	gh, err := tracker.NewGitHub(cfg.Token, cfg.APIURL, repo)
	if err != nil {
		return err
	}

	target := gh.Repo()
	ci := loadCIContext().WithRepo(target.Owner, target.Name)
	logVerbose("Target repository", zap.String("repository", ci.Repository()))
	p := NewPipeline(afero.NewOsFs(), gh, ci, actions.Environ(os.Environ()), log())

	result, err := p.Run(cmd.Context(), pipelineConfig())
	if err != nil {
		return err
	}

	return reportResult(cmd, result)
}

// reportResult prints the outcome and, for a created issue, sets the number
// and url step outputs.
func reportResult(cmd *cobra.Command, result *Result) error {
	out := cmd.OutOrStdout()

	switch result.Outcome {
	case OutcomeNoFindings:
		fmt.Fprintln(out, "No high risk vulnerabilities with fix are found")

	case OutcomeDuplicate:
		fmt.Fprintf(out, "Open issue #%d already reports these vulnerabilities: %s\n",
			result.Duplicate.Number, result.Duplicate.URL)

	case OutcomeDryRun:
		fmt.Fprintf(out, "Dry run: would create issue %q with %d finding(s)\n",
			result.Request.Title, result.Draft.Table.Len())
		fmt.Fprintf(out, "  labels:    %s\n", joinOrNone(result.Request.Labels))
		fmt.Fprintf(out, "  assignees: %s\n", joinOrNone(result.Request.Assignees))
		if result.Request.Milestone != nil {
			fmt.Fprintf(out, "  milestone: %d\n", *result.Request.Milestone)
		}

	case OutcomeCreated:
		runner := newRunner()
		if err := runner.SetOutput("number", strconv.Itoa(result.Created.Number)); err != nil {
			return err
		}
		if err := runner.SetOutput("url", result.Created.URL); err != nil {
			return err
		}
		fmt.Fprintf(out, "Created issue %s#%d: %s\n",
			result.Created.Title, result.Created.Number, result.Created.URL)
	}

	logVerbose("Run finished", zap.Stringer("outcome", result.Outcome))
	return nil
}
