// Package util provides shared utilities: numeric parsing, rounding, and
// error aggregation.
package util

import (
	"math"
	"strconv"
	"strings"
)

// ─── Numeric Parsing ──────────────────────────────────────────────────────────

// ParseNumber parses a user-entered numeric field. Unparseable or empty
// input yields 0 — condition fields are coerced, never individually
// rejected.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Round rounds half away from zero, the convention used for all derived
// yield/price/revenue figures.
func Round(v float64) float64 {
	return math.Round(v)
}

// FormatValue formats a float64 for display without trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ─── Error Helpers ────────────────────────────────────────────────────────────

// MultiError collects multiple errors and presents them as one.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

func (m *MultiError) Error() string {
	msgs := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
