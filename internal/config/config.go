package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for scanissue
type Config struct {
	// Issue template path
	Filename string `mapstructure:"filename" validate:"required"`

	// Glob selecting Anchore report files
	ReportFilesPattern string `mapstructure:"report_files_pattern" validate:"required"`

	// Overrides for the template's front matter
	Assignees string `mapstructure:"assignees"`
	Milestone string `mapstructure:"milestone" validate:"omitempty,number"`

	// Tracker access
	Token      string `mapstructure:"token"`
	Repository string `mapstructure:"repository" validate:"omitempty,contains=/"`
	APIURL     string `mapstructure:"api_url" validate:"required,url"`

	DryRun bool `mapstructure:"dry_run"`

	Verbose   bool   `mapstructure:"verbose"`
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=console json"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Filename:           ".github/ISSUE_TEMPLATE.md",
		ReportFilesPattern: "./anchore-reports/scan_*.json",
		APIURL:             "https://api.github.com",
		LogFormat:          "console",
	}
}

// envNames lists, per key, the environment variables that may set it. The
// first one that is set and non-empty wins.
var envNames = map[string][]string{
	"filename":             {"SCANISSUE_FILENAME", "INPUT_FILENAME"},
	"report_files_pattern": {"SCANISSUE_REPORT_FILES_PATTERN", "INPUT_REPORTFILESPATTERN"},
	"assignees":            {"SCANISSUE_ASSIGNEES", "INPUT_ASSIGNEES"},
	"milestone":            {"SCANISSUE_MILESTONE", "INPUT_MILESTONE"},
	"token":                {"SCANISSUE_TOKEN", "GITHUB_TOKEN"},
	"repository":           {"SCANISSUE_REPOSITORY", "GITHUB_REPOSITORY"},
	"api_url":              {"SCANISSUE_API_URL", "GITHUB_API_URL"},
	"dry_run":              {"SCANISSUE_DRY_RUN"},
	"verbose":              {"SCANISSUE_VERBOSE"},
	"debug":                {"SCANISSUE_DEBUG"},
	"log_format":           {"SCANISSUE_LOG_FORMAT"},
}

// flagNames maps command-line flags onto config keys.
var flagNames = map[string]string{
	"filename":             "filename",
	"report-files-pattern": "report_files_pattern",
	"assignees":            "assignees",
	"milestone":            "milestone",
	"repo":                 "repository",
	"dry-run":              "dry_run",
	"verbose":              "verbose",
	"debug":                "debug",
	"log-format":           "log_format",
}

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigPath is an explicit YAML file. When empty the standard
	// locations are searched.
	ConfigPath string
	// EnvFile is a dotenv file loaded into the process environment first.
	EnvFile string
	// Flags, when set, override every other source for the flags the user
	// changed.
	Flags *pflag.FlagSet
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (./scanissue.yaml, ~/.scanissue.yaml or $XDG_CONFIG_HOME/scanissue/)
// 3. Environment variables (SCANISSUE_*, action inputs, GITHUB_*)
// 4. CLI flags
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, errors.Wrapf(err, "failed to load env file %s", opts.EnvFile)
		}
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("filename", defaults.Filename)
	v.SetDefault("report_files_pattern", defaults.ReportFilesPattern)
	v.SetDefault("assignees", "")
	v.SetDefault("milestone", "")
	v.SetDefault("token", "")
	v.SetDefault("repository", "")
	v.SetDefault("api_url", defaults.APIURL)
	v.SetDefault("dry_run", false)
	v.SetDefault("verbose", false)
	v.SetDefault("debug", false)
	v.SetDefault("log_format", defaults.LogFormat)

	v.SetConfigName("scanissue")
	v.SetConfigType("yaml")

	if opts.ConfigPath != "" {
		v.SetConfigFile(opts.ConfigPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "scanissue"))
		}
	}

	for key, names := range envNames {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, errors.Wrapf(err, "bind env for %s", key)
		}
	}

	if opts.Flags != nil {
		for flag, key := range flagNames {
			if f := opts.Flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag --%s", flag)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "invalid config")
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return errors.Newf("invalid config: %s", strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	key := fieldKeys[fe.Field()]
	switch fe.Tag() {
	case "required":
		return key + " cannot be empty"
	case "number":
		return key + " must be a milestone number"
	case "contains":
		return key + " must be in owner/name form"
	case "url":
		return key + " must be a URL"
	case "oneof":
		return key + " must be one of: " + fe.Param()
	default:
		return key + " failed " + fe.Tag()
	}
}

var fieldKeys = map[string]string{
	"Filename":           "filename",
	"ReportFilesPattern": "report_files_pattern",
	"Milestone":          "milestone",
	"Repository":         "repository",
	"APIURL":             "api_url",
	"LogFormat":          "log_format",
}

// RequireToken reports a missing tracker token.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return errors.WithHint(
			errors.New("no GitHub token configured"),
			"set GITHUB_TOKEN (in a workflow: env: GITHUB_TOKEN: ${{ secrets.GITHUB_TOKEN }})")
	}
	return nil
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# scanissue configuration
# Save this file as ./scanissue.yaml or ~/.scanissue.yaml

# Issue template with front matter
filename: .github/ISSUE_TEMPLATE.md

# Anchore reports to aggregate
report_files_pattern: ./anchore-reports/scan_*.json

# Override the template's assignees (comma separated) and milestone number
# assignees: octocat, hubot
# milestone: 3

# Target repository; defaults to GITHUB_REPOSITORY or the origin remote
# repository: acme/shop

# GitHub API endpoint (GitHub Enterprise: https://ghe.example.com/api/v3)
# api_url: https://api.github.com

# Logging: console or json
log_format: console
`
}
