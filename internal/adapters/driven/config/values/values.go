// Package values converts loosely typed configuration values.
//
// TOML decodes integers as int64 and tables as nested maps, environment
// overrides arrive as typed Go values, and tests set plain ints. The helpers
// here give every ConfigStore the same lenient reading rules.
package values

import "strconv"

// String returns v when it is a string.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int converts integer, float and numeric string values.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case uint:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// Float converts float, integer and numeric string values.
func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Bool returns v when it is a bool.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// StringSlice converts []string and []any values.
// Non-string elements of an []any are skipped.
func StringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Flatten converts nested maps to dot-notation keys.
// {"rag": {"top_k": 5}} becomes {"rag.top_k": 5}.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, m, "")
	return out
}

func flattenInto(out, m map[string]any, prefix string) {
	for key, value := range m {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(out, nested, full)
			continue
		}
		out[full] = value
	}
}
