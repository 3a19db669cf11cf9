package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToNumberSequence normalizes the vector-like values an external analysis
// engine may hand back (typed slices, decoded-JSON []interface{} values,
// numeric strings, or array-shaped maps carrying a "length" field) into an
// ordered []float64. It is the single choke point between loosely shaped
// engine output and the typed pipeline.
func ToNumberSequence(value interface{}) ([]float64, error) {
	switch v := value.(type) {
	case nil:
		return []float64{}, nil
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out, nil
	case []float32:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out, nil
	case []int:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out, nil
	case []interface{}:
		out := make([]float64, len(v))
		for i, item := range v {
			f, err := toFloat(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = f
		}
		return out, nil
	case map[string]interface{}:
		// Array-shaped object: {"length": n, "0": x0, "1": x1, ...}
		rawLen, ok := v["length"]
		if !ok {
			return nil, fmt.Errorf("object is not vector-like: no length field")
		}
		lenF, err := toFloat(rawLen)
		if err != nil {
			return nil, fmt.Errorf("length field: %w", err)
		}
		n := int(lenF)
		if n < 0 {
			return nil, fmt.Errorf("negative length %d", n)
		}
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			item, ok := v[strconv.Itoa(i)]
			if !ok {
				return nil, fmt.Errorf("missing index %d", i)
			}
			f, err := toFloat(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported sequence type %T", value)
	}
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric string %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", value)
	}
}
