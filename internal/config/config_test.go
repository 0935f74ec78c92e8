package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TableID != "data" {
		t.Errorf("TableID = %q, want %q", cfg.TableID, "data")
	}
	if cfg.Concurrency != 0 {
		t.Errorf("Concurrency = %d, want 0", cfg.Concurrency)
	}
	if cfg.Epsilon != 1e-20 {
		t.Errorf("Epsilon = %g, want 1e-20", cfg.Epsilon)
	}
	if cfg.TopK != 10 {
		t.Errorf("TopK = %d, want 10", cfg.TopK)
	}
	if cfg.Pattern != "*.h5" {
		t.Errorf("Pattern = %q, want %q", cfg.Pattern, "*.h5")
	}
	if cfg.PlotPath != "" {
		t.Errorf("PlotPath = %q, want empty", cfg.PlotPath)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("H5DIFF_TABLE", "fields")
	t.Setenv("H5DIFF_CONCURRENCY", "4")
	t.Setenv("H5DIFF_EPSILON", "1e-9")
	t.Setenv("H5DIFF_PATTERN", "*.parquet")
	t.Setenv("H5DIFF_FAIL_ON_ERROR", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TableID != "fields" {
		t.Errorf("TableID = %q, want %q", cfg.TableID, "fields")
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.Epsilon != 1e-9 {
		t.Errorf("Epsilon = %g, want 1e-9", cfg.Epsilon)
	}
	if cfg.Pattern != "*.parquet" {
		t.Errorf("Pattern = %q, want %q", cfg.Pattern, "*.parquet")
	}
	if !cfg.FailOnError {
		t.Error("FailOnError = false, want true")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		env, value string
	}{
		{"H5DIFF_CONCURRENCY", "many"},
		{"H5DIFF_EPSILON", "tiny"},
		{"H5DIFF_FAIL_ON_ERROR", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%q", tt.env, tt.value)
			}
			if !strings.Contains(err.Error(), tt.env) {
				t.Errorf("Expected error to name %s, got %v", tt.env, err)
			}
		})
	}
}

func TestLoadLogging(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadLogging()
	if err != nil {
		t.Fatalf("LoadLogging() error = %v", err)
	}
	if cfg.Level != "debug" || cfg.Format != "text" {
		t.Errorf("Logging = %+v, want debug/text", cfg)
	}
}

func validRun() *Run {
	return &Run{
		PathOld:    "old",
		PathNew:    "new",
		TableID:    "data",
		Epsilon:    1e-20,
		Discipline: "completion",
		Norm:       "frobenius",
		TopK:       10,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Run)
		wantErr string
	}{
		{"valid", func(*Run) {}, ""},
		{"missing old", func(c *Run) { c.PathOld = "" }, "old path is required"},
		{"missing new", func(c *Run) { c.PathNew = "" }, "new path is required"},
		{"blank table", func(c *Run) { c.TableID = "  " }, "table id is required"},
		{"negative concurrency", func(c *Run) { c.Concurrency = -1 }, "concurrency"},
		{"negative top", func(c *Run) { c.TopK = -3 }, "top-k"},
		{"zero epsilon", func(c *Run) { c.Epsilon = 0 }, "epsilon"},
		{"bad discipline", func(c *Run) { c.Discipline = "random" }, "unknown discipline"},
		{"bad norm", func(c *Run) { c.Norm = "max" }, "unknown norm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validRun()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Normalizes(t *testing.T) {
	cfg := validRun()
	cfg.Discipline = "Ordered"
	cfg.Norm = "FRO"
	cfg.Pattern = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Discipline != "dispatch" {
		t.Errorf("Discipline = %q, want dispatch", cfg.Discipline)
	}
	if cfg.Norm != "frobenius" {
		t.Errorf("Norm = %q, want frobenius", cfg.Norm)
	}
	if cfg.Pattern != "*.h5" {
		t.Errorf("Pattern = %q, want *.h5", cfg.Pattern)
	}

	opts := cfg.Metric()
	if opts.Epsilon != 1e-20 || opts.Norm != "frobenius" {
		t.Errorf("Metric() = %+v", opts)
	}
}
