package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lehigh-university-libraries/h5diff/internal/results"
)

// DefaultWidth is the bar width used when the caller passes zero.
const DefaultWidth = 40

var (
	nameStyle  = lipgloss.NewStyle().Bold(true)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0"))
)

// WriteTerminal prints one horizontal bar per entry, scaled so the largest
// value fills width cells.
func WriteTerminal(w io.Writer, entries []results.Entry, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}

	names, values := finite(entries)
	if len(values) == 0 {
		_, err := fmt.Fprintln(w, "No cases to chart")
		return err
	}

	nameWidth := 0
	peak := 0.0
	for i, name := range names {
		nameWidth = max(nameWidth, lipgloss.Width(name))
		peak = math.Max(peak, values[i])
	}

	for i, name := range names {
		cells := 0
		if peak > 0 {
			cells = int(math.Round(values[i] / peak * float64(width)))
		}
		// Non-zero values always get at least one cell.
		if cells == 0 && values[i] > 0 {
			cells = 1
		}

		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(name))
		line := fmt.Sprintf("%s%s %s %s",
			nameStyle.Render(name), pad,
			barStyle.Render(strings.Repeat("█", cells)),
			valueStyle.Render(results.FormatValue(values[i])))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
