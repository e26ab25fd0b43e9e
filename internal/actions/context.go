// Package actions adapts the GitHub Actions runner: the workflow context read
// from GITHUB_* variables, step outputs and failure annotations.
package actions

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// GetenvFunc matches the signature of os.Getenv.
type GetenvFunc func(key string) string

// Context is the workflow run context exposed to issue templates.
type Context struct {
	Payload    map[string]interface{}
	EventName  string
	SHA        string
	Ref        string
	Workflow   string
	Action     string
	Actor      string
	Job        string
	RunNumber  int
	RunID      int
	APIURL     string
	ServerURL  string
	GraphQLURL string
	RepoOwner  string
	RepoName   string
}

// LoadContext reads the workflow context from the environment. The event
// payload is read from GITHUB_EVENT_PATH; a missing or unreadable payload
// leaves Payload empty.
func LoadContext(getenv GetenvFunc, fs afero.Fs, logger *zap.Logger) Context {
	if getenv == nil {
		getenv = os.Getenv
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := Context{
		Payload:    map[string]interface{}{},
		EventName:  getenv("GITHUB_EVENT_NAME"),
		SHA:        getenv("GITHUB_SHA"),
		Ref:        getenv("GITHUB_REF"),
		Workflow:   getenv("GITHUB_WORKFLOW"),
		Action:     getenv("GITHUB_ACTION"),
		Actor:      getenv("GITHUB_ACTOR"),
		Job:        getenv("GITHUB_JOB"),
		RunNumber:  atoi(getenv("GITHUB_RUN_NUMBER")),
		RunID:      atoi(getenv("GITHUB_RUN_ID")),
		APIURL:     withDefault(getenv("GITHUB_API_URL"), "https://api.github.com"),
		ServerURL:  withDefault(getenv("GITHUB_SERVER_URL"), "https://github.com"),
		GraphQLURL: withDefault(getenv("GITHUB_GRAPHQL_URL"), "https://api.github.com/graphql"),
	}

	if owner, name, ok := strings.Cut(getenv("GITHUB_REPOSITORY"), "/"); ok {
		c.RepoOwner, c.RepoName = owner, name
	}

	if path := getenv("GITHUB_EVENT_PATH"); path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			logger.Warn("GITHUB_EVENT_PATH does not exist", zap.String("path", path), zap.Error(err))
		} else if err := json.Unmarshal(data, &c.Payload); err != nil {
			logger.Warn("Could not parse event payload", zap.String("path", path), zap.Error(err))
			c.Payload = map[string]interface{}{}
		}
	}

	return c
}

// WithRepo returns a copy of c pointing at owner/name.
func (c Context) WithRepo(owner, name string) Context {
	c.RepoOwner, c.RepoName = owner, name
	return c
}

// Repository returns "owner/name", or "" when unknown.
func (c Context) Repository() string {
	if c.RepoOwner == "" || c.RepoName == "" {
		return ""
	}
	return c.RepoOwner + "/" + c.RepoName
}

// Vars returns the template variables of the context, keyed the way
// workflow expressions name them.
func (c Context) Vars() map[string]interface{} {
	return map[string]interface{}{
		"payload":    c.Payload,
		"eventName":  c.EventName,
		"sha":        c.SHA,
		"ref":        c.Ref,
		"workflow":   c.Workflow,
		"action":     c.Action,
		"actor":      c.Actor,
		"job":        c.Job,
		"runNumber":  c.RunNumber,
		"runId":      c.RunID,
		"apiUrl":     c.APIURL,
		"serverUrl":  c.ServerURL,
		"graphqlUrl": c.GraphQLURL,
		"repo": map[string]interface{}{
			"owner": c.RepoOwner,
			"repo":  c.RepoName,
		},
	}
}

// Environ returns the process environment as a map.
func Environ(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
