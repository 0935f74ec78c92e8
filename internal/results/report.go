package results

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FormatValue prints v in its shortest form with at least one decimal place,
// so 0 prints as "0.0" and 0.125 as "0.125". NaN prints as "nan".
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WriteReport writes one "<value> <case>" line per entry.
func WriteReport(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s %s\n", FormatValue(e.Value), e.Name); err != nil {
			return err
		}
	}
	return nil
}

// WriteFailures writes the failure summary. Nothing is written when there are
// no failures.
func WriteFailures(w io.Writer, failures []FailureEntry) error {
	if len(failures) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nFAILED (%d):\n", len(failures)); err != nil {
		return err
	}
	for _, f := range failures {
		if _, err := fmt.Fprintf(w, "  %s [%s] %s\n", f.Name, f.Kind, f.Message); err != nil {
			return err
		}
	}
	return nil
}

// WriteColumns writes the worst columns of every case that has details,
// limited to top columns per case.
func WriteColumns(w io.Writer, s *Set, top int) error {
	if len(s.Columns) == 0 {
		return nil
	}

	names := make([]string, 0, len(s.Columns))
	for name := range s.Columns {
		names = append(names, name)
	}
	sort.Strings(names)

	if _, err := fmt.Fprintln(w, "\nWorst columns:"); err != nil {
		return err
	}
	for _, name := range names {
		cols := s.Columns[name]
		if top > 0 && len(cols) > top {
			cols = cols[:top]
		}
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			parts = append(parts, fmt.Sprintf("%s=%s", c.Name, FormatValue(c.Value)))
		}
		if _, err := fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}
