package models

// Front-matter keys the publisher understands.
const (
	AttrTitle     = "title"
	AttrLabels    = "labels"
	AttrAssignees = "assignees"
	AttrMilestone = "milestone"
)

// TemplateDocument is an issue template split into front matter and body.
type TemplateDocument struct {
	Attributes map[string]interface{} `json:"attributes"`
	Body       string                 `json:"body"`
}

// Title returns the raw title attribute, or "" when absent.
func (d TemplateDocument) Title() string {
	v, ok := d.Attributes[AttrTitle]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}

// RenderedIssue is the title and body after template rendering.
type RenderedIssue struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// OpenIssue is the subset of a tracker issue used for duplicate detection.
type OpenIssue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	URL    string `json:"url"`
}

// NewIssue is a create-issue request.
type NewIssue struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Assignees []string `json:"assignees,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Milestone *int     `json:"milestone,omitempty"`
}

// CreatedIssue is what the tracker returns for a created issue.
type CreatedIssue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}
