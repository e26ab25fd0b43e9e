// Package tracker talks to the issue tracker that receives vulnerability
// summaries.
package tracker

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/models"
)

// Tracker is the remote issue service.
type Tracker interface {
	// ListOpenIssues returns every open issue carrying all of labels. An
	// empty label list does not filter by label.
	ListOpenIssues(ctx context.Context, labels []string) ([]models.OpenIssue, error)

	// CreateIssue opens a new issue.
	CreateIssue(ctx context.Context, issue models.NewIssue) (*models.CreatedIssue, error)
}

// Repo identifies a repository as owner/name.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepo parses "owner/name".
func ParseRepo(s string) (Repo, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, errors.Newf("invalid repository %q (expected owner/name)", s)
	}
	return Repo{Owner: owner, Name: name}, nil
}
