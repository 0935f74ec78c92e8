// Package diffcmd wires matching, comparison, reporting and plotting into
// the h5diff commands.
package diffcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/h5diff/internal/chart"
	"github.com/lehigh-university-libraries/h5diff/internal/config"
	"github.com/lehigh-university-libraries/h5diff/internal/match"
	"github.com/lehigh-university-libraries/h5diff/internal/results"
	"github.com/lehigh-university-libraries/h5diff/internal/scheduler"
	"github.com/lehigh-university-libraries/h5diff/internal/tables"
)

// ErrFailedPairs is returned by Execute when FailOnError is set and at least
// one pair failed.
var ErrFailedPairs = errors.New("one or more pairs failed")

// manyPairs is the pair count above which an unbounded run is logged, since
// every pair then holds two tables in memory at once.
const manyPairs = 256

// Deps are the collaborators of the commands.
type Deps struct {
	Loader tables.Loader
	Lister tables.Lister
	Stdout io.Writer
	Logger *slog.Logger
}

// DefaultDeps reads HDF5 and Parquet files and writes to stdout.
func DefaultDeps() Deps {
	registry := formats()
	return Deps{
		Loader: registry,
		Lister: registry,
		Stdout: os.Stdout,
		Logger: slog.Default(),
	}
}

func (d Deps) withDefaults() Deps {
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// Execute compares the two trees described by cfg, prints the ranked report
// and writes the optional chart and results file.
//
// If ctx is cancelled mid-run the partial report is still printed and the
// context error is returned.
func Execute(ctx context.Context, cfg *config.Run, deps Deps) (*results.Set, error) {
	deps = deps.withDefaults()
	logger := deps.Logger

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Loader == nil {
		return nil, fmt.Errorf("no table loader configured")
	}

	logger.Info("Starting comparison", "config", cfg.String())

	pairs, err := match.Match(cfg.PathOld, cfg.PathNew, match.Options{
		Recursive: cfg.Recursive,
		Pattern:   cfg.Pattern,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	if len(pairs) == 0 {
		logger.Warn("No matching file pairs", "old", cfg.PathOld, "new", cfg.PathNew, "pattern", cfg.Pattern)
	}
	if cfg.Concurrency == 0 && len(pairs) > manyPairs {
		logger.Warn("Running every pair at once; consider --concurrency", "pairs", len(pairs))
	}

	discipline, _ := scheduler.ParseDiscipline(cfg.Discipline)
	sched := scheduler.New(deps.Loader,
		scheduler.WithConcurrency(cfg.Concurrency),
		scheduler.WithDiscipline(discipline),
		scheduler.WithMetric(cfg.Metric()),
		scheduler.WithDetail(cfg.Detail),
		scheduler.WithLogger(logger))

	set, runErr := sched.Run(ctx, pairs, cfg.TableID)

	if err := printSet(deps.Stdout, set); err != nil {
		return set, fmt.Errorf("failed to write report: %w", err)
	}

	sum := results.Summarize(set)
	logger.Info("Comparison summary",
		"cases", sum.Total,
		"changed", sum.Changed,
		"failed", sum.Failed,
		"max", sum.Max)

	if cfg.ResultsPath != "" {
		run := results.NewRun(results.RunConfig{
			PathOld:   cfg.PathOld,
			PathNew:   cfg.PathNew,
			TableID:   cfg.TableID,
			Recursive: cfg.Recursive,
			Pattern:   cfg.Pattern,
			Norm:      cfg.Norm,
			Epsilon:   cfg.Epsilon,
		}, set)
		if err := results.SaveYAML(cfg.ResultsPath, run); err != nil {
			logger.Warn("Failed to save results", "path", cfg.ResultsPath, "err", err)
		} else {
			logger.Info("Results saved", "path", cfg.ResultsPath)
		}
	}

	plot(deps, set, plotOptions{
		TopK:  cfg.TopK,
		Show:  cfg.ShowPlot,
		Path:  cfg.PlotPath,
		Title: fmt.Sprintf("%s vs %s", cfg.PathOld, cfg.PathNew),
	})

	if runErr != nil {
		return set, fmt.Errorf("comparison interrupted: %w", runErr)
	}
	if cfg.FailOnError && len(set.Failures) > 0 {
		return set, fmt.Errorf("%w: %d of %d", ErrFailedPairs, len(set.Failures), len(pairs))
	}
	return set, nil
}

// printSet writes the ranked values, then the failures and column details if
// there are any.
func printSet(w io.Writer, set *results.Set) error {
	if err := results.WriteReport(w, results.Rank(set)); err != nil {
		return err
	}
	if err := results.WriteFailures(w, results.FailureList(set)); err != nil {
		return err
	}
	return results.WriteColumns(w, set, 5)
}

type plotOptions struct {
	TopK  int
	Show  bool
	Path  string
	Title string
}

// plot draws the top-K cases. Chart errors never fail the command.
func plot(deps Deps, set *results.Set, opts plotOptions) {
	if !opts.Show && opts.Path == "" {
		return
	}

	top := results.TopK(set, opts.TopK)
	if len(top) == 0 {
		deps.Logger.Info("Nothing to plot")
		return
	}

	if opts.Show {
		fmt.Fprintf(deps.Stdout, "\nTop %d:\n", len(top))
		if err := chart.WriteTerminal(deps.Stdout, top, chart.DefaultWidth); err != nil {
			deps.Logger.Warn("Failed to draw chart", "err", err)
		}
	}

	if opts.Path != "" {
		if err := chart.SavePNG(top, opts.Path, opts.Title); err != nil {
			deps.Logger.Warn("Failed to save chart", "path", opts.Path, "err", err)
			return
		}
		deps.Logger.Info("Chart saved", "path", opts.Path)
	}
}
