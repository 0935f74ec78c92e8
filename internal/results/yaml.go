package results

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/h5diff/internal/metric"
	"gopkg.in/yaml.v3"
)

// RunConfig echoes the settings a run was made with.
type RunConfig struct {
	PathOld   string  `yaml:"pathold"`
	PathNew   string  `yaml:"pathnew"`
	TableID   string  `yaml:"table"`
	Recursive bool    `yaml:"recursive"`
	Pattern   string  `yaml:"pattern"`
	Norm      string  `yaml:"norm"`
	Epsilon   float64 `yaml:"epsilon"`
	Timestamp string  `yaml:"timestamp"`
}

// CaseResult is the persisted outcome of one case.
type CaseResult struct {
	Name    string               `yaml:"name"`
	Value   *float64             `yaml:"value,omitempty"`
	NaN     bool                 `yaml:"nan,omitempty"`
	Failure *Failure             `yaml:"failure,omitempty"`
	Columns []metric.ColumnError `yaml:"columns,omitempty"`
}

// Run is the YAML document written by SaveYAML.
type Run struct {
	Config  RunConfig    `yaml:"config"`
	Results []CaseResult `yaml:"results"`
}

// NewRun converts a result set into its persisted form, ordered as the report.
func NewRun(cfg RunConfig, s *Set) *Run {
	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}
	run := &Run{Config: cfg, Results: make([]CaseResult, 0, s.Len())}

	for _, e := range Rank(s) {
		cr := CaseResult{Name: e.Name, Columns: s.Columns[e.Name]}
		if math.IsNaN(e.Value) {
			cr.NaN = true
		} else {
			v := e.Value
			cr.Value = &v
		}
		run.Results = append(run.Results, cr)
	}
	for _, f := range FailureList(s) {
		failure := f.Failure
		run.Results = append(run.Results, CaseResult{Name: f.Name, Failure: &failure})
	}
	return run
}

// Set rebuilds the result set from a persisted run.
func (r *Run) Set() (*Set, error) {
	s := NewSet()
	for _, cr := range r.Results {
		var err error
		switch {
		case cr.Failure != nil:
			err = s.AddFailure(cr.Name, *cr.Failure)
		case cr.NaN:
			err = s.AddValue(cr.Name, math.NaN(), cr.Columns)
		case cr.Value != nil:
			err = s.AddValue(cr.Name, *cr.Value, cr.Columns)
		default:
			err = fmt.Errorf("case %q has neither value nor failure", cr.Name)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SaveYAML writes the run to path, creating parent directories.
func SaveYAML(path string, run *Run) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// LoadYAML reads a run written by SaveYAML.
func LoadYAML(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var run Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return &run, nil
}
