// Package chart draws the top-K cases of a run, either as a PNG bar chart or
// as horizontal bars in the terminal.
package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/h5diff/internal/results"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultPath is where run writes its chart when no path is given.
const DefaultPath = "h5diff.png"

// SavePNG renders entries as a bar chart in the order given (callers pass the
// output of results.TopK, which is largest first). The image format follows
// the file extension.
func SavePNG(entries []results.Entry, path, title string) error {
	names, values := finite(entries)
	if len(values) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "relative error"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars)

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
	}

	width := max(6*vg.Inch, vg.Length(len(values))*0.5*vg.Inch)
	if err := p.Save(width, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// finite drops values the plotter cannot scale an axis to.
func finite(entries []results.Entry) ([]string, plotter.Values) {
	names := make([]string, 0, len(entries))
	values := make(plotter.Values, 0, len(entries))
	for _, e := range entries {
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			continue
		}
		names = append(names, e.Name)
		values = append(values, e.Value)
	}
	return names, values
}
