package social

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Count coerces a provider value into a non-negative count.
// nil, booleans, non-numeric strings and negative values all yield 0.
func Count(v any) int64 {
	var n int64
	switch x := v.(type) {
	case nil, bool:
		return 0
	case string:
		n = parseCount(x)
	case json.Number:
		n = parseCount(string(x))
	case float64:
		n = floatCount(x)
	case float32:
		n = floatCount(float64(x))
	default:
		i, err := cast.ToInt64E(v)
		if err != nil {
			return 0
		}
		n = i
	}
	if n < 0 {
		return 0
	}
	return n
}

func parseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return floatCount(f)
}

func floatCount(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return cast.ToInt64(math.Trunc(f))
}

// Lookup walks nested JSON objects along path and returns the value found,
// or nil as soon as any level is missing, null or not an object.
func Lookup(v any, path ...string) any {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}

// First returns the first element of a JSON array, or nil.
func First(v any) any {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	return arr[0]
}

// String converts a JSON scalar into an optional string.
// Objects, arrays and null yield nil.
func String(v any) *string {
	switch x := v.(type) {
	case string:
		return &x
	case json.Number:
		s := x.String()
		return &s
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		return &s
	default:
		return nil
	}
}

// Optional returns nil for the empty string and a pointer to s otherwise.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
