package diffcmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/h5diff/internal/results"
)

// ReportOptions controls how a saved run is shown again.
type ReportOptions struct {
	TopK     int
	ShowPlot bool
	PlotPath string
}

// ExecuteReport prints a run saved with --results and optionally plots it.
func ExecuteReport(path string, opts ReportOptions, deps Deps) error {
	deps = deps.withDefaults()

	run, err := results.LoadYAML(path)
	if err != nil {
		return err
	}
	set, err := run.Set()
	if err != nil {
		return fmt.Errorf("failed to rebuild results from %s: %w", path, err)
	}

	c := run.Config
	fmt.Fprintf(deps.Stdout, "# %s vs %s table=%s norm=%s (%s)\n", c.PathOld, c.PathNew, c.TableID, c.Norm, c.Timestamp)

	if err := printSet(deps.Stdout, set); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := results.WriteSummary(deps.Stdout, results.Summarize(set)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	plot(deps, set, plotOptions{
		TopK:  opts.TopK,
		Show:  opts.ShowPlot,
		Path:  opts.PlotPath,
		Title: fmt.Sprintf("%s vs %s", c.PathOld, c.PathNew),
	})
	return nil
}
