package render

import (
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/copystructure"
)

// Context is the variable namespace visible to issue templates. It is built
// once per run and never modified afterwards.
type Context struct {
	vars map[string]interface{}
}

// NewContext merges the CI context, the process environment (exposed as
// "env") and the run timestamp (exposed as "date", milliseconds since the
// epoch). Keys in ci named "env" or "date" are overridden.
func NewContext(ci map[string]interface{}, environ map[string]string, now time.Time) Context {
	vars := make(map[string]interface{}, len(ci)+2)
	for k, v := range ci {
		vars[k] = v
	}

	env := make(map[string]string, len(environ))
	for k, v := range environ {
		env[k] = v
	}
	vars["env"] = env
	vars["date"] = now.UnixMilli()

	return Context{vars: vars}
}

// Keys returns the sorted names of the top-level variables.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c.vars))
	for k := range c.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// data returns a deep copy handed to template execution.
func (c Context) data() (map[string]interface{}, error) {
	out, err := copystructure.Copy(c.vars)
	if err != nil {
		return nil, errors.Wrap(err, "failed to copy template context")
	}
	return out.(map[string]interface{}), nil
}
