// Package render executes issue templates against a run context.
package render

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/models"
)

// ErrTemplate marks a template that cannot be parsed or executed.
var ErrTemplate = errors.New("invalid template")

// impureFuncs read the environment, the clock, randomness or the network.
// Templates only see what the Context holds.
var impureFuncs = []string{
	"env", "expandenv",
	"now", "ago",
	"randAlphaNum", "randAlpha", "randAscii", "randNumeric", "randBytes", "randInt",
	"uuidv4", "shuffle",
	"getHostByName",
	"genPrivateKey", "buildCustomCert",
	"genCA", "genCAWithKey",
	"genSelfSignedCert", "genSelfSignedCertWithKey",
	"genSignedCert", "genSignedCertWithKey",
	"encryptAES", "bcrypt", "htpasswd",
}

// mutatingFuncs change the dicts they are given in place.
var mutatingFuncs = []string{
	"set", "unset",
	"merge", "mustMerge",
	"mergeOverwrite", "mustMergeOverwrite",
}

// Engine renders templates with the sprig function set, minus impureFuncs and
// mutatingFuncs, plus the date filter.
type Engine struct {
	funcs template.FuncMap
}

// New creates an engine. Each engine owns its function map.
func New() *Engine {
	funcs := sprig.TxtFuncMap()
	for _, name := range impureFuncs {
		delete(funcs, name)
	}
	for _, name := range mutatingFuncs {
		delete(funcs, name)
	}
	funcs["date"] = FormatDate
	funcs[resolveFunc] = resolvePath
	funcs[emptyFunc] = emptyIfUnknown

	return &Engine{funcs: funcs}
}

// Render executes text against ctx. Unknown references, nested ones
// included, render as ""; only syntax and execution errors fail. Each call
// executes against its own copy of ctx.
func (e *Engine) Render(name, text string, ctx Context) (string, error) {
	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(e.funcs).
		Parse(text)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "parse %s", name), ErrTemplate)
	}
	tolerateMissing(tmpl)

	data, err := ctx.data()
	if err != nil {
		return "", errors.Wrapf(err, "render %s", name)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", errors.Mark(errors.Wrapf(err, "render %s", name), ErrTemplate)
	}
	return b.String(), nil
}

// ComposeBody appends the markdown summary table to the template body.
func ComposeBody(body, table string) string {
	return body + "\n" + table
}

// RenderIssue renders the title attribute and the composed body of doc with
// the same context, so both see the same date.
func (e *Engine) RenderIssue(doc models.TemplateDocument, table string, ctx Context) (models.RenderedIssue, error) {
	body, err := e.Render("body", ComposeBody(doc.Body, table), ctx)
	if err != nil {
		return models.RenderedIssue{}, err
	}

	title, err := e.Render("title", doc.Title(), ctx)
	if err != nil {
		return models.RenderedIssue{}, err
	}

	return models.RenderedIssue{Title: title, Body: body}, nil
}
