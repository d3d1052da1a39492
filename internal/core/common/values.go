package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Helpers for reading loosely typed graph values. A nil result means the
// property was absent or null.

func OptString(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func String(m map[string]any, key string) string {
	if s := OptString(m, key); s != nil {
		return *s
	}
	return ""
}

// OptFloat accepts floats, integers and numeric strings such as "$4.99".
// NaN and infinities read as absent.
func OptFloat(m map[string]any, key string) *float64 {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int64:
		f = float64(t)
	case int:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(t), "$"), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func Map(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// Maps returns the map elements of a list value, skipping nulls.
func Maps(v any) []map[string]any {
	list, _ := v.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok && m != nil {
			out = append(out, m)
		}
	}
	return out
}
