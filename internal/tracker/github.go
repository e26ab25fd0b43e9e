package tracker

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v66/github"
	"github.com/ppiankov/scanissue/internal/models"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

const listPageSize = 100

// GitHub implements Tracker on the GitHub Issues API.
type GitHub struct {
	client *github.Client
	repo   Repo
}

// NewGitHub creates a GitHub tracker for repo. apiURL selects a GitHub
// Enterprise endpoint; empty means DefaultAPIURL.
func NewGitHub(token, apiURL string, repo Repo) (*GitHub, error) {
	if token == "" {
		return nil, errors.New("a GitHub token is required")
	}

	client := github.NewClient(&http.Client{Timeout: 30 * time.Second}).WithAuthToken(token)

	if apiURL != "" && strings.TrimSuffix(apiURL, "/") != DefaultAPIURL {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid API URL %q", apiURL)
		}
		client.BaseURL = base
	}

	return &GitHub{client: client, repo: repo}, nil
}

// Repo returns the repository issues are read from and written to.
func (g *GitHub) Repo() Repo {
	return g.repo
}

// ListOpenIssues reads every page of open issues filtered by labels.
func (g *GitHub) ListOpenIssues(ctx context.Context, labels []string) ([]models.OpenIssue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Labels:      labels,
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var out []models.OpenIssue
	for {
		issues, resp, err := g.client.Issues.ListByRepo(ctx, g.repo.Owner, g.repo.Name, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "list open issues of %s", g.repo)
		}

		for _, issue := range issues {
			out = append(out, models.OpenIssue{
				Number: issue.GetNumber(),
				Title:  issue.GetTitle(),
				Body:   issue.GetBody(),
				URL:    issue.GetHTMLURL(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// CreateIssue opens issue in the repository.
func (g *GitHub) CreateIssue(ctx context.Context, issue models.NewIssue) (*models.CreatedIssue, error) {
	req := &github.IssueRequest{
		Title:     github.String(issue.Title),
		Body:      github.String(issue.Body),
		Milestone: issue.Milestone,
	}
	if len(issue.Labels) > 0 {
		labels := issue.Labels
		req.Labels = &labels
	}
	if len(issue.Assignees) > 0 {
		assignees := issue.Assignees
		req.Assignees = &assignees
	}

	created, _, err := g.client.Issues.Create(ctx, g.repo.Owner, g.repo.Name, req)
	if err != nil {
		return nil, errors.Wrapf(err, "create issue in %s", g.repo)
	}

	return &models.CreatedIssue{
		Number: created.GetNumber(),
		Title:  created.GetTitle(),
		URL:    created.GetHTMLURL(),
	}, nil
}

// SubErrors returns the field-level errors GitHub attaches to a rejected
// request (for example an unknown assignee), one line each.
func SubErrors(err error) []string {
	var resp *github.ErrorResponse
	if !errors.As(err, &resp) {
		return nil
	}

	out := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		var parts []string
		if e.Resource != "" {
			parts = append(parts, "resource="+e.Resource)
		}
		if e.Field != "" {
			parts = append(parts, "field="+e.Field)
		}
		if e.Code != "" {
			parts = append(parts, "code="+e.Code)
		}
		if e.Message != "" {
			parts = append(parts, "message="+e.Message)
		}
		out = append(out, strings.Join(parts, " "))
	}
	return out
}
