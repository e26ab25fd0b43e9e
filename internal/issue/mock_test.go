package issue

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ppiankov/scanissue/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockTracker is a testify mock of tracker.Tracker
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) ListOpenIssues(ctx context.Context, labels []string) ([]models.OpenIssue, error) {
	args := m.Called(ctx, labels)
	issues, _ := args.Get(0).([]models.OpenIssue)
	return issues, args.Error(1)
}

func (m *MockTracker) CreateIssue(ctx context.Context, issue models.NewIssue) (*models.CreatedIssue, error) {
	args := m.Called(ctx, issue)
	created, _ := args.Get(0).(*models.CreatedIssue)
	return created, args.Error(1)
}

func apiResponse(status int, method string) *http.Response {
	u, _ := url.Parse("https://api.github.com/repos/acme/shop/issues")
	return &http.Response{
		StatusCode: status,
		Request:    &http.Request{Method: method, URL: u},
	}
}
