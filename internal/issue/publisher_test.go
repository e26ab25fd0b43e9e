package issue

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v66/github"
	"github.com/ppiankov/scanissue/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

const testTemplate = ".github/ISSUE_TEMPLATE.md"

func TestResolve(t *testing.T) {
	doc := models.TemplateDocument{Attributes: map[string]interface{}{
		models.AttrLabels:    "security, anchore",
		models.AttrAssignees: []interface{}{"alice", "bob"},
		models.AttrMilestone: 2,
	}}
	rendered := models.RenderedIssue{Title: "t", Body: "b"}

	tests := []struct {
		name      string
		overrides Overrides
		want      models.NewIssue
	}{
		{
			name: "front matter only",
			want: models.NewIssue{
				Title: "t", Body: "b",
				Labels:    []string{"security", "anchore"},
				Assignees: []string{"alice", "bob"},
				Milestone: intPtr(2),
			},
		},
		{
			name:      "inputs override",
			overrides: Overrides{Assignees: "carol, dave", Milestone: "7"},
			want: models.NewIssue{
				Title: "t", Body: "b",
				Labels:    []string{"security", "anchore"},
				Assignees: []string{"carol", "dave"},
				Milestone: intPtr(7),
			},
		},
		{
			name:      "single assignee override",
			overrides: Overrides{Assignees: "erin"},
			want: models.NewIssue{
				Title: "t", Body: "b",
				Labels:    []string{"security", "anchore"},
				Assignees: []string{"erin"},
				Milestone: intPtr(2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(testTemplate, doc, rendered, tt.overrides)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEmptyFrontMatter(t *testing.T) {
	got, err := Resolve(testTemplate, models.TemplateDocument{}, models.RenderedIssue{Title: "t"}, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Labels)
	assert.Equal(t, []string{}, got.Assignees)
	assert.Nil(t, got.Milestone)
}

func TestParseMilestone(t *testing.T) {
	valid := map[string]struct {
		in   interface{}
		want *int
	}{
		"nil":          {nil, nil},
		"empty string": {"", nil},
		"int":          {3, intPtr(3)},
		"float":        {float64(4), intPtr(4)},
		"string":       {" 5 ", intPtr(5)},
	}
	for name, tt := range valid {
		t.Run(name, func(t *testing.T) {
			got, err := ParseMilestone(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []interface{}{"v1.0", 1.5, 0, -2, []interface{}{1}} {
		_, err := ParseMilestone(bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTrackerCreateFailed))
	}
}

func TestResolveMalformedMilestoneHint(t *testing.T) {
	doc := models.TemplateDocument{Attributes: map[string]interface{}{models.AttrMilestone: "v1.0"}}

	_, err := Resolve(testTemplate, doc, models.RenderedIssue{Title: "t"}, Overrides{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTrackerCreateFailed))
	assert.Contains(t, errors.FlattenHints(err), "Check .github/ISSUE_TEMPLATE.md!")

	_, err = Resolve(testTemplate, models.TemplateDocument{}, models.RenderedIssue{Title: "t"}, Overrides{Milestone: "-1"})
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "malformed milestone number")
}

func TestPublishSuccess(t *testing.T) {
	req := models.NewIssue{Title: "t", Body: "b", Labels: []string{"security"}}
	m := new(MockTracker)
	m.On("CreateIssue", mock.Anything, req).Return(&models.CreatedIssue{Number: 5, Title: "t", URL: "https://x/5"}, nil)

	created, err := NewPublisher(m, ".github/ISSUE_TEMPLATE.md", nil).Publish(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 5, created.Number)
	m.AssertExpectations(t)
}

func TestPublishFailure(t *testing.T) {
	m := new(MockTracker)
	m.On("CreateIssue", mock.Anything, mock.Anything).Return(nil, &github.ErrorResponse{
		Response: apiResponse(422, "POST"),
		Message:  "Validation Failed",
		Errors:   []github.Error{{Resource: "Issue", Field: "assignees", Code: "invalid"}},
	})

	_, err := NewPublisher(m, "tmpl.md", nil).Publish(context.Background(), models.NewIssue{Title: "t"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTrackerCreateFailed))
	assert.Contains(t, errors.FlattenHints(err), "Check tmpl.md!")
	assert.Contains(t, errors.FlattenDetails(err), "field=assignees")
}
