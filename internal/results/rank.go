package results

import (
	"math"
	"sort"
)

// DefaultTopK is the number of worst cases handed to the plot.
const DefaultTopK = 10

// Entry is one ranked case.
type Entry struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// FailureEntry is one failed case.
type FailureEntry struct {
	Name string
	Failure
}

// Rank orders the values ascending, ties broken by case name. NaN values come
// last.
func Rank(s *Set) []Entry {
	entries := make([]Entry, 0, len(s.Values))
	for name, v := range s.Values {
		entries = append(entries, Entry{Name: name, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
	return entries
}

// TopK returns the k largest values, largest first. Ties are ordered as the
// reverse of Rank. NaN values are left out.
func TopK(s *Set, k int) []Entry {
	if k < 0 {
		k = 0
	}
	ranked := Rank(s)

	top := make([]Entry, 0, k)
	for i := len(ranked) - 1; i >= 0 && len(top) < k; i-- {
		if math.IsNaN(ranked[i].Value) {
			continue
		}
		top = append(top, ranked[i])
	}
	return top
}

// FailureList returns the failures ordered by case name.
func FailureList(s *Set) []FailureEntry {
	out := make([]FailureEntry, 0, len(s.Failures))
	for name, f := range s.Failures {
		out = append(out, FailureEntry{Name: name, Failure: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func less(a, b Entry) bool {
	an, bn := math.IsNaN(a.Value), math.IsNaN(b.Value)
	switch {
	case an && bn:
		return a.Name < b.Name
	case an:
		return false
	case bn:
		return true
	case a.Value != b.Value:
		return a.Value < b.Value
	default:
		return a.Name < b.Name
	}
}
