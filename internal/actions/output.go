package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Runner writes step outputs and annotations the way the Actions runner
// expects them.
type Runner struct {
	fs         afero.Fs
	stdout     io.Writer
	outputPath string
	newID      func() string
}

// NewRunner creates a runner. Outputs go to the file named by GITHUB_OUTPUT;
// outside of Actions they are printed as workflow commands on stdout.
func NewRunner(getenv GetenvFunc, fs afero.Fs, stdout io.Writer) *Runner {
	if getenv == nil {
		getenv = os.Getenv
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Runner{
		fs:         fs,
		stdout:     stdout,
		outputPath: getenv("GITHUB_OUTPUT"),
		newID:      func() string { return uuid.NewString() },
	}
}

// SetOutput records a step output.
func (r *Runner) SetOutput(name, value string) error {
	if r.outputPath == "" {
		_, err := fmt.Fprintf(r.stdout, "::set-output name=%s::%s\n", escapeProperty(name), escapeData(value))
		return err
	}

	delimiter := "ghadelimiter_" + r.newID()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return errors.Newf("unexpected input: output %q contains the delimiter", name)
	}

	f, err := r.fs.OpenFile(r.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open GITHUB_OUTPUT %s", r.outputPath)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter); err != nil {
		return errors.Wrap(err, "write step output")
	}
	return nil
}

// SetFailed emits an error annotation carrying message.
func (r *Runner) SetFailed(message string) {
	_, _ = fmt.Fprintf(r.stdout, "::error::%s\n", escapeData(message))
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
