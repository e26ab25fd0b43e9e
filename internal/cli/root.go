package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/actions"
	"github.com/ppiankov/scanissue/internal/collector"
	"github.com/ppiankov/scanissue/internal/config"
	"github.com/ppiankov/scanissue/internal/frontmatter"
	"github.com/ppiankov/scanissue/internal/issue"
	"github.com/ppiankov/scanissue/internal/logging"
	"github.com/ppiankov/scanissue/internal/render"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	ExitOK           = 0 // Success, including "nothing to do"
	ExitTrackerFail  = 1 // Listing or creating issues failed
	ExitInvalidInput = 2 // Malformed report, front matter or template
	ExitRuntimeError = 3 // Config, I/O, or runtime error
)

var (
	// Global config instance
	cfg *config.Config

	// Global logger, replaced once config is loaded
	logger *zap.Logger

	// Global flags
	configFile string
	envFile    string

	buildVersion = "dev"

	// newRunner creates the workflow-command writer used for step outputs
	// and failure annotations.
	newRunner = func() *actions.Runner {
		return actions.NewRunner(os.Getenv, afero.NewOsFs(), os.Stdout)
	}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scanissue",
	Short: "scanissue - Anchore scan results as a GitHub issue",
	Long: `scanissue aggregates Anchore vulnerability reports into a markdown table of
High severity findings that have a fix, renders an issue template with front
matter, and opens a GitHub issue unless an open issue with the same body exists.

Without a subcommand it behaves like 'scanissue run'.

Quick start:
  GITHUB_TOKEN=... scanissue --repo org/name
  scanissue preview
  scanissue validate

Template (.github/ISSUE_TEMPLATE.md):
  ---
  title: Vulnerabilities found on {{ .date | date "2006-01-02" }}
  labels: security, anchore
  ---
  High risk vulnerabilities found by {{ .workflow }}:`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setup,
	RunE:              runRun,
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportFailure(err)
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return HandleError(err)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		buildVersion = v
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./scanissue.yaml or ~/.scanissue.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"load environment variables from a dotenv file first")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().Bool("debug", false,
		"debug mode (very verbose)")
	rootCmd.PersistentFlags().String("log-format", "console",
		"log encoding: console or json")

	addRunFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(config.Options{
		ConfigPath: configFile,
		EnvFile:    envFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	logger, err = logging.New(logging.Options{
		Verbose: cfg.Verbose,
		Debug:   cfg.Debug,
		Format:  cfg.LogFormat,
	})
	if err != nil {
		return err
	}

	logDebug("Loaded config",
		zap.String("filename", cfg.Filename),
		zap.String("report_files_pattern", cfg.ReportFilesPattern),
		zap.String("repository", cfg.Repository),
		zap.String("api_url", cfg.APIURL))
	return nil
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	// Printing the version must not depend on a valid config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scanissue %s\n", buildVersion)
		fmt.Fprintln(cmd.OutOrStdout(), "Anchore scan results as a GitHub issue")
	},
}

// HandleError determines the appropriate exit code for an error
func HandleError(err error) int {
	var usage *UsageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage),
		errors.Is(err, collector.ErrInputMalformed),
		errors.Is(err, frontmatter.ErrMalformed),
		errors.Is(err, render.ErrTemplate):
		return ExitInvalidInput
	case errors.Is(err, issue.ErrTrackerQueryFailed),
		errors.Is(err, issue.ErrTrackerCreateFailed):
		return ExitTrackerFail
	default:
		return ExitRuntimeError
	}
}

// UsageError represents an invalid flag value
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// failureMessage is the annotation text of err: the message followed by
// any hints.
func failureMessage(err error) string {
	msg := err.Error()
	if hints := errors.FlattenHints(err); hints != "" {
		msg += "\n\n" + hints
	}
	return msg
}

// reportFailure logs err with its details and marks the workflow step as
// failed.
func reportFailure(err error) {
	fields := []zap.Field{}
	if details := errors.FlattenDetails(err); details != "" {
		fields = append(fields, zap.String("details", details))
	}
	if hints := errors.FlattenHints(err); hints != "" {
		fields = append(fields, zap.String("hint", hints))
	}
	logError(err.Error(), fields...)
	logDebug("Error trace", zap.String("trace", fmt.Sprintf("%+v", err)))

	newRunner().SetFailed(failureMessage(err))
}

// log returns the configured logger, or a console logger at the default
// level when config failed to load.
func log() *zap.Logger {
	if logger == nil {
		l, err := logging.New(logging.Options{})
		if err != nil {
			return zap.NewNop()
		}
		logger = l
	}
	return logger
}

// logVerbose logs at info level, shown with --verbose
func logVerbose(msg string, fields ...zap.Field) {
	log().Info(msg, fields...)
}

// logDebug logs at debug level, shown with --debug
func logDebug(msg string, fields ...zap.Field) {
	log().Debug(msg, fields...)
}

// logError logs an error message
func logError(msg string, fields ...zap.Field) {
	log().Error(msg, fields...)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
