package tables

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

type stubLoader struct {
	calls []string
}

func (s *stubLoader) Load(path, tableID string) (*Table, error) {
	s.calls = append(s.calls, path+"#"+tableID)
	return New(mat.NewDense(1, 1, []float64{1})), nil
}

func TestRegistryDispatchByExtension(t *testing.T) {
	h5 := &stubLoader{}
	pq := &stubLoader{}
	r := NewRegistry().Register(h5, ".h5", "HDF5").Register(pq, ".parquet")

	tests := []struct {
		path string
		want *stubLoader
	}{
		{"run/case1.h5", h5},
		{"run/CASE1.H5", h5},
		{"run/case1.hdf5", h5},
		{"run/case1.parquet", pq},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			before := len(tt.want.calls)
			if _, err := r.Load(tt.path, "data"); err != nil {
				t.Fatalf("Load(%s) error = %v", tt.path, err)
			}
			if len(tt.want.calls) != before+1 {
				t.Errorf("Expected loader for %s to be called", tt.path)
			}
		})
	}
}

func TestRegistryUnsupportedExtension(t *testing.T) {
	r := NewRegistry().Register(&stubLoader{}, ".h5")

	_, err := r.Load("case1.csv", "data")
	if err == nil {
		t.Fatal("Expected error for unsupported extension, got nil")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *LoadError, got %T", err)
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRegistryListRequiresLister(t *testing.T) {
	r := NewRegistry().Register(&stubLoader{}, ".h5")

	if _, err := r.List("case1.h5"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat from List, got %v", err)
	}
}

func TestColumnName(t *testing.T) {
	tbl := New(mat.NewDense(1, 3, nil), "pressure", "")

	if got := tbl.ColumnName(0); got != "pressure" {
		t.Errorf("Expected pressure, got %s", got)
	}
	if got := tbl.ColumnName(1); got != "col_1" {
		t.Errorf("Expected col_1 for empty label, got %s", got)
	}
	if got := tbl.ColumnName(2); got != "col_2" {
		t.Errorf("Expected col_2 for missing label, got %s", got)
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := &LoadError{Path: "new/case2.h5", Table: "data", Err: ErrTableNotFound}

	want := `load table "data" from new/case2.h5: table not found`
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, ErrTableNotFound) {
		t.Error("Expected LoadError to unwrap to ErrTableNotFound")
	}
}
