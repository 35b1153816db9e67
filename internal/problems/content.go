package problems

import "strconv"

// Content is the raw authoring descriptor of a problem or box: a nested
// string-keyed mapping as decoded from the task document.
type Content map[string]any

// Clone returns a shallow copy, enough to keep the original descriptor
// intact against top-level mutation.
func (c Content) Clone() Content {
	out := make(Content, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (c Content) str(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// boolean is tolerant of absent keys: they read as false, matching the
// descriptor defaults.
func (c Content) boolean(key string) bool {
	v, ok := c[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// integer accepts the numeric shapes a JSON or YAML decode can produce.
func (c Content) integer(key string) (int, bool) {
	v, ok := c[key]
	if !ok {
		return 0, false
	}
	return toInt(v)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toStringSlice(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// toList widens the submitted value shapes a multi-select field can arrive
// in. It never fails on scalars; those are rejected later by index parsing.
func toList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(list))
		for i, n := range list {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}
