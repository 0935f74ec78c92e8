// Package results holds the aggregated outcome of a diff run and the views
// derived from it: the ranked report, the top-K worst cases and the failure
// summary.
package results

import (
	"fmt"

	"github.com/lehigh-university-libraries/h5diff/internal/metric"
)

// Failure kinds.
const (
	FailureLoad   = "load"
	FailureShape  = "shape"
	FailureMetric = "metric"
)

// Failure records why a case has no error value.
type Failure struct {
	Kind    string `yaml:"kind"`
	Message string `yaml:"message"`
}

// Set maps case names to their rounded error value or to a failure. A case
// is never present in both maps.
type Set struct {
	Values   map[string]float64
	Failures map[string]Failure
	// Columns holds per-column errors when detail mode is on.
	Columns map[string][]metric.ColumnError
}

// NewSet creates an empty result set.
func NewSet() *Set {
	return &Set{
		Values:   make(map[string]float64),
		Failures: make(map[string]Failure),
		Columns:  make(map[string][]metric.ColumnError),
	}
}

// AddValue records a successful comparison.
func (s *Set) AddValue(name string, value float64, columns []metric.ColumnError) error {
	if s.Has(name) {
		return fmt.Errorf("duplicate result for case %q", name)
	}
	s.Values[name] = value
	if len(columns) > 0 {
		s.Columns[name] = columns
	}
	return nil
}

// AddFailure records a failed comparison.
func (s *Set) AddFailure(name string, f Failure) error {
	if s.Has(name) {
		return fmt.Errorf("duplicate result for case %q", name)
	}
	s.Failures[name] = f
	return nil
}

// Has reports whether the case already has an outcome.
func (s *Set) Has(name string) bool {
	_, ok := s.Values[name]
	if ok {
		return true
	}
	_, ok = s.Failures[name]
	return ok
}

// Len is the number of cases with an outcome.
func (s *Set) Len() int {
	return len(s.Values) + len(s.Failures)
}
