package results

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/lehigh-university-libraries/h5diff/internal/metric"
	"gonum.org/v1/gonum/stat"
)

// Summary holds aggregate statistics over the finite values of a set.
type Summary struct {
	Total    int
	Compared int
	Failed   int
	NaN      int
	Mean     float64
	Median   float64
	Min      float64
	Max      float64
	// Changed counts cases with a non-zero relative error.
	Changed int
}

// Summarize computes the statistics of s.
func Summarize(s *Set) Summary {
	sum := Summary{
		Total:  s.Len(),
		Failed: len(s.Failures),
	}

	values := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		sum.Compared++
		if math.IsNaN(v) {
			sum.NaN++
			continue
		}
		if v != 0 {
			sum.Changed++
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return sum
	}

	sort.Float64s(values)
	sum.Mean = stat.Mean(values, nil)
	sum.Median = median(values)
	sum.Min = values[0]
	sum.Max = values[len(values)-1]
	return sum
}

// median expects sorted values and averages the two middle ones for even
// counts.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// WriteSummary prints the summary block.
func WriteSummary(w io.Writer, sum Summary) error {
	lines := []string{
		"\n========================================",
		"Summary",
		"========================================",
		fmt.Sprintf("Cases:     %d", sum.Total),
		fmt.Sprintf("Compared:  %d", sum.Compared),
		fmt.Sprintf("Changed:   %d", sum.Changed),
		fmt.Sprintf("Failed:    %d", sum.Failed),
	}
	if sum.NaN > 0 {
		lines = append(lines, fmt.Sprintf("NaN:       %d", sum.NaN))
	}
	if sum.Compared > sum.NaN {
		lines = append(lines,
			fmt.Sprintf("Mean:      %s", FormatValue(metric.Round(sum.Mean, metric.Precision))),
			fmt.Sprintf("Median:    %s", FormatValue(metric.Round(sum.Median, metric.Precision))),
			fmt.Sprintf("Min:       %s", FormatValue(sum.Min)),
			fmt.Sprintf("Max:       %s", FormatValue(sum.Max)))
	}
	lines = append(lines, "========================================")

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
