// Package normalization maps loosely written configuration strings onto enum values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Enum normalizes case and surrounding whitespace before matching a raw
// string against a fixed set of values.
type Enum[T comparable] struct {
	name         string
	values       map[string]T
	defaultValue T
	keys         []string
}

// NewEnum creates a normalizer. name is used in error messages; the empty
// string maps to defaultValue.
func NewEnum[T comparable](name string, values map[string]T, defaultValue T) *Enum[T] {
	e := &Enum[T]{
		name:         name,
		values:       make(map[string]T, len(values)),
		defaultValue: defaultValue,
	}
	for k, v := range values {
		key := normalize(k)
		e.values[key] = v
		e.keys = append(e.keys, key)
	}
	sort.Strings(e.keys)
	return e
}

// Normalize returns the matching value or the default.
func (e *Enum[T]) Normalize(raw string) T {
	if v, ok := e.values[normalize(raw)]; ok {
		return v
	}
	return e.defaultValue
}

// Parse returns the matching value, the default for blank input, or an
// error listing the accepted spellings.
func (e *Enum[T]) Parse(raw string) (T, error) {
	key := normalize(raw)
	if key == "" {
		return e.defaultValue, nil
	}
	if v, ok := e.values[key]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %v", e.name, raw, e.keys)
}

// Keys returns the accepted spellings in sorted order.
func (e *Enum[T]) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
