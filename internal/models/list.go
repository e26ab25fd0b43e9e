package models

import (
	"fmt"
	"strings"
)

// ListToArray normalizes a front-matter or input value into a list of
// tokens. Strings are split on commas and trimmed; lists are kept in order.
// nil and empty strings yield an empty list.
func ListToArray(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case string:
		return splitList(val)
	case []string:
		return compact(val)
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, stringify(item))
		}
		return compact(out)
	default:
		return splitList(stringify(val))
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return compact(strings.Split(s, ","))
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringify(v interface{}) string {
	return fmt.Sprint(v)
}
