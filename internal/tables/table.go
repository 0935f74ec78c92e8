// Package tables defines the numeric table model shared by the diff engine and
// the file-format readers that produce it.
package tables

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrTableNotFound is the cause of a LoadError when the file has no table
	// with the requested identifier.
	ErrTableNotFound = errors.New("table not found")

	// ErrNotTwoDimensional is the cause of a LoadError when the stored data is
	// not a 2-D numeric array.
	ErrNotTwoDimensional = errors.New("table is not 2-D numeric")

	// ErrUnsupportedFormat is returned when no loader is registered for a
	// file extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Table is a 2-D array of real values loaded from one named entry of a file.
// Columns is optional; when set it labels each column of Data.
type Table struct {
	Data    *mat.Dense
	Columns []string
}

// New wraps data, labelling columns when names are given.
func New(data *mat.Dense, columns ...string) *Table {
	return &Table{Data: data, Columns: columns}
}

// Dims returns the number of rows and columns.
func (t *Table) Dims() (int, int) {
	if t == nil || t.Data == nil {
		return 0, 0
	}
	return t.Data.Dims()
}

// ColumnName returns the label of column j, or "col_<j>" when unlabelled.
func (t *Table) ColumnName(j int) string {
	if t != nil && j >= 0 && j < len(t.Columns) && t.Columns[j] != "" {
		return t.Columns[j]
	}
	return fmt.Sprintf("col_%d", j)
}

// Loader loads a named table from a file.
type Loader interface {
	Load(path, tableID string) (*Table, error)
}

// Info describes one table found in a file.
type Info struct {
	Name string
	Rows int
	Cols int
	Note string
}

// Lister enumerates the tables stored in a file.
type Lister interface {
	List(path string) ([]Info, error)
}

// LoadError reports a failure to load a table for one file.
type LoadError struct {
	Path  string
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load table %q from %s: %v", e.Table, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Ext returns the lower-cased extension used for loader lookup.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
