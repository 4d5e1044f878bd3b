package block

import (
	"encoding/json"
	"math"
)

// Normalize canonicalizes a decoded field value so that trees built from JSON
// manifests (encoding/json: every number a float64), YAML fence bodies
// (yaml.v3: integers as int) and Go literals compare equal. Integral floats
// become int, nested maps and slices are normalized recursively, and nil maps
// or slices become empty ones.
func Normalize(v any) any {
	switch val := v.(type) {
	case float64:
		return normalizeFloat(val)
	case float32:
		return normalizeFloat(float64(val))
	case int64:
		if val >= math.MinInt && val <= math.MaxInt {
			return int(val)
		}
		return val
	case uint64:
		if val <= math.MaxInt {
			return int(val)
		}
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Normalize(i)
		}
		if f, err := val.Float64(); err == nil {
			return Normalize(f)
		}
		return val.String()
	case map[string]any:
		return NormalizeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// NormalizeMap normalizes every value in m and always returns a non-nil map.
func NormalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

// maxExactFloat is the largest float64 magnitude with guaranteed integer
// precision (2^53); beyond it "integral" is an artifact of rounding.
const maxExactFloat = 1 << 53

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) <= maxExactFloat {
		return int(f)
	}
	return f
}
