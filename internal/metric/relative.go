// Package metric computes the relative error between two equally shaped
// numeric tables.
//
// The error of a new table against an old (reference) table is
//
//	norm(old - new) / (norm(old) + epsilon)
//
// with NaN cells of the difference counted as zero. Epsilon keeps an all-zero
// reference from dividing by zero: the result is then large but finite.
package metric

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon is added to the reference norm.
const DefaultEpsilon = 1e-20

// Precision is the number of decimal places stored for an error value.
const Precision = 3

// Norm selects the matrix norm used for numerator and denominator.
type Norm string

const (
	// Frobenius is the Euclidean norm over all entries.
	Frobenius Norm = "frobenius"
	// L1 is the sum of absolute values over all entries.
	L1 Norm = "l1"
)

// ParseNorm accepts "frobenius"/"fro"/"l2" and "l1".
func ParseNorm(s string) (Norm, error) {
	switch s {
	case "", "frobenius", "fro", "l2":
		return Frobenius, nil
	case "l1":
		return L1, nil
	default:
		return "", fmt.Errorf("unknown norm %q (supported: frobenius, l1)", s)
	}
}

// Options configures the metric.
type Options struct {
	Epsilon float64
	Norm    Norm
}

// DefaultOptions returns the Frobenius norm with DefaultEpsilon.
func DefaultOptions() Options {
	return Options{Epsilon: DefaultEpsilon, Norm: Frobenius}
}

// ShapeMismatchError is returned when the two tables differ in shape.
type ShapeMismatchError struct {
	OldRows, OldCols int
	NewRows, NewCols int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: old is %dx%d, new is %dx%d", e.OldRows, e.OldCols, e.NewRows, e.NewCols)
}

// RelativeError returns norm(old-new)/(norm(old)+eps). It is not symmetric in
// its arguments.
func RelativeError(oldData, newData *mat.Dense, opts Options) (float64, error) {
	diff, err := difference(oldData, newData)
	if err != nil {
		return 0, err
	}
	return ratio(entrywiseNorm(diff, opts.Norm), entrywiseNorm(oldData, opts.Norm), opts.Epsilon), nil
}

// ColumnError is the relative error of one column.
type ColumnError struct {
	Index int     `yaml:"index"`
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// ColumnErrors computes the relative error per column and returns the columns
// sorted worst first. NaN values sort last.
func ColumnErrors(oldData, newData *mat.Dense, opts Options, names func(int) string) ([]ColumnError, error) {
	diff, err := difference(oldData, newData)
	if err != nil {
		return nil, err
	}

	_, cols := oldData.Dims()
	out := make([]ColumnError, cols)
	for j := 0; j < cols; j++ {
		num := vectorNorm(mat.Col(nil, j, diff), opts.Norm)
		den := vectorNorm(mat.Col(nil, j, oldData), opts.Norm)
		out[j] = ColumnError{Index: j, Value: Round(ratio(num, den, opts.Epsilon), Precision)}
		if names != nil {
			out[j].Name = names(j)
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		va, vb := out[a].Value, out[b].Value
		if math.IsNaN(vb) {
			return !math.IsNaN(va)
		}
		if math.IsNaN(va) {
			return false
		}
		return va > vb
	})

	return out, nil
}

// Round rounds v to the given number of decimal places. Exact ties in the
// binary value go to the even digit, so 0.0625 becomes 0.062.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func difference(oldData, newData *mat.Dense) (*mat.Dense, error) {
	or, oc := oldData.Dims()
	nr, nc := newData.Dims()
	if or != nr || oc != nc {
		return nil, &ShapeMismatchError{OldRows: or, OldCols: oc, NewRows: nr, NewCols: nc}
	}

	var diff mat.Dense
	diff.Sub(oldData, newData)
	diff.Apply(func(_, _ int, v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	}, &diff)
	return &diff, nil
}

func ratio(num, den, eps float64) float64 {
	if num == 0 && !math.IsNaN(den) {
		return 0
	}
	return num / (den + eps)
}

func entrywiseNorm(m *mat.Dense, norm Norm) float64 {
	if norm == L1 {
		rows, _ := m.Dims()
		var sum float64
		for i := 0; i < rows; i++ {
			sum += floats.Norm(m.RawRowView(i), 1)
		}
		return sum
	}
	return mat.Norm(m, 2)
}

func vectorNorm(v []float64, norm Norm) float64 {
	if norm == L1 {
		return floats.Norm(v, 1)
	}
	return floats.Norm(v, 2)
}
