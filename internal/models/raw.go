package models

import "strconv"

// RawRecord is an upstream payload item. Holded responses carry no fixed
// schema, so records stay loosely typed and every field access goes through
// a presence check.
type RawRecord map[string]any

// String returns the named field as a non-empty string, or "".
func (r RawRecord) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// FirstString returns the first non-empty string among the named fields.
func (r RawRecord) FirstString(keys ...string) string {
	for _, key := range keys {
		if s := r.String(key); s != "" {
			return s
		}
	}
	return ""
}

// Number returns the named field as a float64. JSON numbers decode as
// float64; numeric strings are accepted too.
func (r RawRecord) Number(key string) (float64, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// FirstNumber returns the first parseable numeric field among the named keys.
func (r RawRecord) FirstNumber(keys ...string) (float64, bool) {
	for _, key := range keys {
		if f, ok := r.Number(key); ok {
			return f, true
		}
	}
	return 0, false
}
