// Package config holds the validated settings of a comparison run.
//
// Values come from three layers: struct tag defaults, environment variables
// (optionally from a .env file), and finally command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/h5diff/internal/match"
	"github.com/lehigh-university-libraries/h5diff/internal/metric"
	"github.com/lehigh-university-libraries/h5diff/internal/scheduler"
)

// Run configures one comparison of two result trees.
type Run struct {
	PathOld string
	PathNew string
	TableID string `env:"H5DIFF_TABLE" default:"data"`

	Recursive bool
	ShowPlot  bool
	Detail    bool

	Concurrency int     `env:"H5DIFF_CONCURRENCY" default:"0"`
	Discipline  string  `env:"H5DIFF_DISCIPLINE" default:"completion"`
	Epsilon     float64 `env:"H5DIFF_EPSILON" default:"1e-20"`
	Norm        string  `env:"H5DIFF_NORM" default:"frobenius"`
	TopK        int     `env:"H5DIFF_TOP_K" default:"10"`
	Pattern     string  `env:"H5DIFF_PATTERN" default:"*.h5"`

	// PlotPath is written only when non-empty.
	PlotPath    string `env:"H5DIFF_PLOT"`
	ResultsPath string `env:"H5DIFF_RESULTS"`

	FailOnError bool `env:"H5DIFF_FAIL_ON_ERROR" default:"false"`
}

// Logging configures the process logger.
type Logging struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate normalizes c and checks it, describing all failures at once.
func (c *Run) Validate() error {
	var errs []string

	if c.PathOld == "" {
		errs = append(errs, "old path is required")
	}
	if c.PathNew == "" {
		errs = append(errs, "new path is required")
	}

	c.TableID = strings.TrimSpace(c.TableID)
	if c.TableID == "" {
		errs = append(errs, "table id is required (H5DIFF_TABLE)")
	}

	if c.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("concurrency (%d) must be non-negative", c.Concurrency))
	}
	if c.TopK < 0 {
		errs = append(errs, fmt.Sprintf("top-k (%d) must be non-negative", c.TopK))
	}
	if c.Epsilon <= 0 {
		errs = append(errs, fmt.Sprintf("epsilon (%g) must be positive", c.Epsilon))
	}

	if d, err := scheduler.ParseDiscipline(strings.ToLower(c.Discipline)); err != nil {
		errs = append(errs, err.Error())
	} else {
		c.Discipline = string(d)
	}
	if n, err := metric.ParseNorm(strings.ToLower(c.Norm)); err != nil {
		errs = append(errs, err.Error())
	} else {
		c.Norm = string(n)
	}

	if c.Pattern == "" {
		c.Pattern = match.DefaultPattern
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Metric returns the metric options c describes. Call after Validate.
func (c *Run) Metric() metric.Options {
	n, _ := metric.ParseNorm(c.Norm)
	return metric.Options{Epsilon: c.Epsilon, Norm: n}
}

// String summarizes c for logging.
func (c *Run) String() string {
	return fmt.Sprintf("Run{Old: %q, New: %q, Table: %q, Recursive: %v, Pattern: %q, Concurrency: %d, Discipline: %s, Norm: %s, Epsilon: %g}",
		c.PathOld, c.PathNew, c.TableID, c.Recursive, c.Pattern, c.Concurrency, c.Discipline, c.Norm, c.Epsilon)
}
