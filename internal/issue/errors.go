package issue

import (
	"github.com/cockroachdb/errors"
	"github.com/ppiankov/scanissue/internal/tracker"
)

var (
	// ErrTrackerQueryFailed marks a failed open-issue listing. No issue is
	// created after it.
	ErrTrackerQueryFailed = errors.New("tracker query failed")

	// ErrTrackerCreateFailed marks a rejected or impossible create request.
	ErrTrackerCreateFailed = errors.New("tracker create failed")
)

// withTrackerDetails attaches the tracker's field-level errors as details.
func withTrackerDetails(err error) error {
	for _, sub := range tracker.SubErrors(err) {
		err = errors.WithDetail(err, sub)
	}
	return err
}
