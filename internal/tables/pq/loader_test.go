package pq

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/h5diff/internal/tables"
	"github.com/parquet-go/parquet-go"
)

type channels struct {
	Alpha float64 `parquet:"alpha"`
	Beta  float64 `parquet:"beta"`
	Gamma int64   `parquet:"gamma"`
}

type caseRow struct {
	Data  channels `parquet:"data"`
	Step  int32    `parquet:"step"`
	Label string   `parquet:"label"`
	Gaps  *float64 `parquet:"gaps,optional"`
}

func writeFixture(t *testing.T) string {
	t.Helper()

	gap := 2.5
	rows := []caseRow{
		{Data: channels{Alpha: 1, Beta: 2, Gamma: 3}, Step: 0, Label: "a", Gaps: &gap},
		{Data: channels{Alpha: 4, Beta: 5, Gamma: 6}, Step: 1, Label: "b"},
	}

	path := filepath.Join(t.TempDir(), "case1.parquet")
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("Failed to write parquet fixture: %v", err)
	}
	return path
}

func TestLoadGroupTable(t *testing.T) {
	path := writeFixture(t)

	tbl, err := NewLoader().Load(path, "data")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	rows, cols := tbl.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("Expected 2x3 table, got %dx%d", rows, cols)
	}

	want := [][]float64{{1, 2, 3}, {4, 5, 6}}
	for i := range want {
		for j := range want[i] {
			if got := tbl.Data.At(i, j); got != want[i][j] {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got, want[i][j])
			}
		}
	}

	if tbl.ColumnName(0) != "alpha" || tbl.ColumnName(2) != "gamma" {
		t.Errorf("Unexpected column names: %v", tbl.Columns)
	}
}

func TestLoadLeafTable(t *testing.T) {
	path := writeFixture(t)

	tbl, err := NewLoader().Load(path, "step")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	rows, cols := tbl.Dims()
	if rows != 2 || cols != 1 {
		t.Fatalf("Expected 2x1 table, got %dx%d", rows, cols)
	}
	if tbl.Data.At(1, 0) != 1 {
		t.Errorf("Expected step 1 in second row, got %v", tbl.Data.At(1, 0))
	}
}

func TestLoadNullBecomesNaN(t *testing.T) {
	path := writeFixture(t)

	tbl, err := NewLoader().Load(path, "gaps")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if tbl.Data.At(0, 0) != 2.5 {
		t.Errorf("Expected 2.5, got %v", tbl.Data.At(0, 0))
	}
	if !math.IsNaN(tbl.Data.At(1, 0)) {
		t.Errorf("Expected NaN for null cell, got %v", tbl.Data.At(1, 0))
	}
}

func TestLoadErrors(t *testing.T) {
	path := writeFixture(t)

	tests := []struct {
		name    string
		path    string
		table   string
		wantErr error
	}{
		{name: "missing table", path: path, table: "pressure", wantErr: tables.ErrTableNotFound},
		{name: "non-numeric column", path: path, table: "label", wantErr: tables.ErrNotTwoDimensional},
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.parquet"), table: "data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(tt.path, tt.table)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			var loadErr *tables.LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected *tables.LoadError, got %T", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestList(t *testing.T) {
	path := writeFixture(t)

	infos, err := NewLoader().List(path)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	byName := make(map[string]tables.Info)
	for _, info := range infos {
		byName[info.Name] = info
	}

	data, ok := byName["data"]
	if !ok {
		t.Fatalf("Expected data table in %v", infos)
	}
	if data.Rows != 2 || data.Cols != 3 {
		t.Errorf("Expected data 2x3, got %dx%d", data.Rows, data.Cols)
	}
	if byName["step"].Cols != 1 {
		t.Errorf("Expected step to have 1 column, got %d", byName["step"].Cols)
	}
}
