// Package logging builds the zap logger shared by every command.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's level and encoding.
type Options struct {
	Verbose bool
	Debug   bool
	Format  string // "console" or "json"
	Output  io.Writer
}

// ParseLevel maps a LOG_LEVEL style string to a zap level. Unknown values
// fall back to warn.
func ParseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil || s == "" {
		return zapcore.WarnLevel
	}
	return lvl
}

// Level resolves the effective level: --debug wins over --verbose.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Debug:
		return zapcore.DebugLevel
	case o.Verbose:
		return zapcore.InfoLevel
	default:
		return ParseLevel(os.Getenv("LOG_LEVEL"))
	}
}

// New creates a logger writing to stderr unless Output is set. Stdout is
// reserved for workflow commands. Every entry carries a run_id.
func New(o Options) (*zap.Logger, error) {
	out := o.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	switch o.Format {
	case "", "console":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	case "json":
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	default:
		return nil, errors.WithHint(
			errors.Newf("unknown log format %q", o.Format),
			"use console or json")
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(out)), o.Level())
	var opts []zap.Option
	if o.Debug {
		opts = append(opts, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return zap.New(core, opts...).With(zap.String("run_id", uuid.NewString())), nil
}
