package issue

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v66/github"
	"github.com/ppiankov/scanissue/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const body = "## Vulnerabilities\n| Image source | Package |\n| --- | --- |\n| api/Dockerfile | openssl |"

func TestFindDuplicateExactMatch(t *testing.T) {
	m := new(MockTracker)
	m.On("ListOpenIssues", mock.Anything, []string{"security"}).Return([]models.OpenIssue{
		{Number: 1, Body: "something else"},
		{Number: 2, Title: "different title", Body: body},
	}, nil)

	d := NewDetector(m, zaptest.NewLogger(t))
	dup, err := d.FindDuplicate(context.Background(), models.RenderedIssue{Title: "t", Body: body}, []string{"security"})
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, 2, dup.Number)
	m.AssertExpectations(t)
}

func TestFindDuplicateOneCharacterDiffers(t *testing.T) {
	m := new(MockTracker)
	m.On("ListOpenIssues", mock.Anything, []string(nil)).Return([]models.OpenIssue{
		{Number: 1, Body: body + " "},
		{Number: 2, Body: "## vulnerabilities" + body[len("## Vulnerabilities"):]},
	}, nil)

	dup, err := NewDetector(m, nil).FindDuplicate(context.Background(), models.RenderedIssue{Body: body}, nil)
	require.NoError(t, err)
	assert.Nil(t, dup)
}

func TestFindDuplicateNoOpenIssues(t *testing.T) {
	m := new(MockTracker)
	m.On("ListOpenIssues", mock.Anything, mock.Anything).Return(nil, nil)

	dup, err := NewDetector(m, nil).FindDuplicate(context.Background(), models.RenderedIssue{Body: ""}, nil)
	require.NoError(t, err)
	assert.Nil(t, dup)
}

func TestFindDuplicateEmptyBodies(t *testing.T) {
	m := new(MockTracker)
	m.On("ListOpenIssues", mock.Anything, mock.Anything).Return([]models.OpenIssue{{Number: 9, Body: ""}}, nil)

	dup, err := NewDetector(m, nil).FindDuplicate(context.Background(), models.RenderedIssue{Body: ""}, nil)
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, 9, dup.Number)
}

func TestFindDuplicateListFails(t *testing.T) {
	m := new(MockTracker)
	apiErr := &github.ErrorResponse{
		Response: apiResponse(401, "GET"),
		Message:  "Bad credentials",
		Errors:   []github.Error{{Resource: "Issue", Code: "unauthorized"}},
	}
	m.On("ListOpenIssues", mock.Anything, mock.Anything).Return(nil, apiErr)

	dup, err := NewDetector(m, nil).FindDuplicate(context.Background(), models.RenderedIssue{Body: body}, nil)
	require.Error(t, err)
	assert.Nil(t, dup)
	assert.True(t, errors.Is(err, ErrTrackerQueryFailed))
	assert.False(t, errors.Is(err, ErrTrackerCreateFailed))
	assert.Contains(t, err.Error(), "Error reading issues")
	assert.Contains(t, errors.FlattenDetails(err), "resource=Issue code=unauthorized")
}

func TestSameBody(t *testing.T) {
	assert.True(t, SameBody("a\nb", "a\nb"))
	assert.False(t, SameBody("a\nb", "a\r\nb"))
	assert.False(t, SameBody("héllo", "hello"))
	assert.True(t, SameBody("", ""))
	assert.False(t, SameBody(fmt.Sprintf("%d findings", 3), "4 findings"))
}
