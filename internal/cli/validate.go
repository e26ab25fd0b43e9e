package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/actions"
	"github.com/ppiankov/scanissue/internal/collector"
	"github.com/ppiankov/scanissue/internal/frontmatter"
	"github.com/ppiankov/scanissue/internal/issue"
	"github.com/ppiankov/scanissue/internal/models"
	"github.com/ppiankov/scanissue/internal/render"
	"github.com/ppiankov/scanissue/internal/reporter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the reports and the issue template without creating anything",
	Long: `Validate parses every report matching --report-files-pattern against the
Anchore report schema, then parses and renders the issue template.

Returns exit 0 if everything is valid, exit 2 if anything is malformed, with
details on stdout.

Example:
  scanissue validate
  scanissue validate --report-files-pattern 'out/**/scan_*.json'`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	addInputFlags(validateCmd)
	addOverrideFlags(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	return validateInputs(afero.NewOsFs(), cmd.OutOrStdout(), pipelineConfig())
}

// validateInputs checks every report and the template, printing one line per
// file, and fails with collector.ErrInputMalformed if any is invalid.
func validateInputs(fs afero.Fs, w io.Writer, pcfg PipelineConfig) error {
	coll := collector.New(fs, log())
	paths, err := coll.Discover(pcfg.Pattern)
	if err != nil {
		return err
	}

	invalid := 0
	for _, p := range paths {
		if err := validateReport(coll, p); err != nil {
			invalid++
			fmt.Fprintf(w, "INVALID: %s: %v\n", p, err)
			continue
		}
		fmt.Fprintf(w, "VALID:   %s\n", p)
	}
	if len(paths) == 0 {
		fmt.Fprintf(w, "No reports match %s\n", pcfg.Pattern)
	}

	if err := validateTemplate(fs, pcfg); err != nil {
		if !errors.Is(err, frontmatter.ErrMalformed) && !errors.Is(err, render.ErrTemplate) &&
			!errors.Is(err, issue.ErrTrackerCreateFailed) {
			return err
		}
		invalid++
		fmt.Fprintf(w, "INVALID: %s: %v\n", pcfg.Template, err)
	} else {
		fmt.Fprintf(w, "VALID:   %s\n", pcfg.Template)
	}

	if invalid > 0 {
		return errors.Mark(
			errors.Newf("%d of %d file(s) are invalid", invalid, len(paths)+1),
			collector.ErrInputMalformed)
	}
	return nil
}

func validateReport(coll *collector.Collector, path string) error {
	file, err := coll.Read(path)
	if err != nil {
		return err
	}
	_, err = collector.ParseReport(file.Content)
	return err
}

// validateTemplate parses the template, renders it against the current
// environment with an empty table and resolves its milestone.
func validateTemplate(fs afero.Fs, pcfg PipelineConfig) error {
	data, err := afero.ReadFile(fs, pcfg.Template)
	if err != nil {
		return errors.Wrapf(err, "failed to read issue template %s", pcfg.Template)
	}

	doc, err := frontmatter.Parse(data)
	if err != nil {
		return err
	}

	ctx := render.NewContext(loadCIContext().Vars(), actions.Environ(os.Environ()), time.Now())
	md, err := reporter.MarkdownTable([][]string{models.SummaryHeader})
	if err != nil {
		return err
	}
	rendered, err := render.New().RenderIssue(doc, md, ctx)
	if err != nil {
		return err
	}

	_, err = issue.Resolve(pcfg.Template, doc, rendered, pcfg.Overrides)
	return err
}
