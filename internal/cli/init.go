package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const sampleConfigPath = "scanissue.yaml"

var (
	initForce  bool
	initStdout bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample scanissue.yaml",
	Long: `Init writes a commented sample configuration to ./scanissue.yaml.

An existing file is kept unless --force is given.

Example:
  scanissue init
  scanissue init --stdout > ~/.scanissue.yaml`,
	Args: cobra.NoArgs,
	// Writing a sample must not depend on a valid config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if initStdout {
			_, err := io.WriteString(cmd.OutOrStdout(), config.GenerateSampleConfig())
			return err
		}
		return writeSampleConfig(afero.NewOsFs(), cmd.OutOrStdout(), sampleConfigPath, initForce)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&initStdout, "stdout", false, "print the sample instead of writing it")
}

// writeSampleConfig writes the sample configuration to path on fs.
func writeSampleConfig(fs afero.Fs, w io.Writer, path string, force bool) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return errors.Wrapf(err, "failed to check %s", path)
	}
	if exists && !force {
		return &UsageError{Message: path + " already exists (use --force to overwrite)"}
	}

	if err := afero.WriteFile(fs, path, []byte(config.GenerateSampleConfig()), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
