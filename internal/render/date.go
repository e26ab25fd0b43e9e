package render

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// FormatDate is the "date" template filter: {{ .date | date "2006-01-02" }}.
// value is a millisecond timestamp (any integer or float type, json.Number or
// a numeric string) or a time.Time. The result is in UTC; an empty layout
// means RFC 3339. A nil value renders as "".
func FormatDate(layout string, value interface{}) (string, error) {
	if value == nil {
		return "", nil
	}

	t, err := toTime(value)
	if err != nil {
		return "", err
	}

	if layout == "" {
		layout = time.RFC3339
	}
	return t.UTC().Format(layout), nil
}

func toTime(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, errors.New("date: nil time")
		}
		return *v, nil
	case int64:
		return time.UnixMilli(v), nil
	case int:
		return time.UnixMilli(int64(v)), nil
	case int32:
		return time.UnixMilli(int64(v)), nil
	case uint64:
		return time.UnixMilli(int64(v)), nil
	case float64:
		return time.UnixMilli(int64(v)), nil
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return time.Time{}, errors.Wrapf(err, "date: %q is not a millisecond timestamp", v.String())
		}
		return time.UnixMilli(ms), nil
	case string:
		ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return time.Time{}, errors.Newf("date: %q is not a millisecond timestamp", v)
		}
		return time.UnixMilli(ms), nil
	default:
		return time.Time{}, errors.Newf("date: unsupported value of type %T", value)
	}
}
