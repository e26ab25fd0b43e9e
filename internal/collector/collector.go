package collector

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultPattern is where the Anchore step of the CI build drops its reports.
const DefaultPattern = "./anchore-reports/scan_*.json"

// ErrInputMalformed marks report or template content that cannot be used.
// It aborts the run: a partial summary is worse than none.
var ErrInputMalformed = errors.New("malformed input")

// Collector discovers and reads scan reports one at a time, in the order the
// glob yields them.
type Collector struct {
	fs     afero.Fs
	logger *zap.Logger
}

// New creates a collector reading from fs. A nil logger disables logging.
func New(fs afero.Fs, logger *zap.Logger) *Collector {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		fs:     fs,
		logger: logger,
	}
}

// Discover resolves pattern to report paths. Matches within a directory are
// lexically ordered; no match yields an empty slice and no error.
func (c *Collector) Discover(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	cleaned := filepath.ToSlash(filepath.Clean(pattern))
	base, rel := doublestar.SplitPattern(cleaned)

	fsys := c.fs
	if base != "." {
		fsys = afero.NewBasePathFs(c.fs, filepath.FromSlash(base))
	}

	matches, err := doublestar.Glob(afero.NewIOFS(fsys), rel, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "resolve report pattern %q", pattern)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if base == "." {
			paths = append(paths, filepath.FromSlash(m))
			continue
		}
		paths = append(paths, filepath.FromSlash(path.Join(base, m)))
	}

	c.logger.Debug("Discovered report files",
		zap.String("pattern", pattern),
		zap.Int("count", len(paths)))

	return paths, nil
}

// Read loads one report file and derives its image source label.
func (c *Collector) Read(reportPath string) (models.ReportFile, error) {
	data, err := afero.ReadFile(c.fs, reportPath)
	if err != nil {
		return models.ReportFile{}, errors.Wrapf(err, "read report %s", reportPath)
	}
	return models.ReportFile{
		Path:    reportPath,
		Source:  SourceLabel(reportPath),
		Content: data,
	}, nil
}

// Collect discovers every report matching pattern and returns the findings of
// each file in discovery order. Any unreadable or malformed file aborts the
// collection.
func (c *Collector) Collect(pattern string) ([]models.Finding, error) {
	paths, err := c.Discover(pattern)
	if err != nil {
		return nil, err
	}

	var findings []models.Finding
	for _, p := range paths {
		c.logger.Debug("Reading vulnerabilities file", zap.String("path", p))

		file, err := c.Read(p)
		if err != nil {
			return nil, err
		}

		report, err := ParseReport(file.Content)
		if err != nil {
			return nil, errors.Wrapf(err, "report %s", p)
		}

		for _, v := range report.Vulnerabilities {
			findings = append(findings, models.NewFinding(file.Source, v))
		}
	}

	return findings, nil
}

// SourceLabel derives the Dockerfile path an Anchore report was produced for
// from the report file name: "scan_team-api.json" -> "team-api/Dockerfile",
// "scan_org_team-api.json" -> "org/team-api/Dockerfile".
//
// The name is cut at its first dot and the leading "scan" token dropped. A
// name without an underscore yields "/Dockerfile".
func SourceLabel(reportPath string) string {
	name := filepath.ToSlash(reportPath)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}

	segments := strings.Split(name, "_")
	return strings.Join(segments[1:], "/") + "/Dockerfile"
}
