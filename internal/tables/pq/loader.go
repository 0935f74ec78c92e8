// Package pq reads numeric tables from Parquet files.
package pq

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/h5diff/internal/tables"
	"github.com/parquet-go/parquet-go"
	"gonum.org/v1/gonum/mat"
)

// Loader loads tables from Parquet files.
//
// The table identifier names a top-level field of the schema. A group field
// becomes one column per leaf; a leaf field becomes a single-column table.
type Loader struct {
	batchSize int
}

// NewLoader creates a Parquet loader.
func NewLoader() *Loader {
	return &Loader{batchSize: 128}
}

// Load implements tables.Loader.
func (l *Loader) Load(path, tableID string) (*tables.Table, error) {
	slog.Debug("Opening Parquet file", "path", path, "table", tableID)

	file, err := os.Open(path)
	if err != nil {
		return nil, &tables.LoadError{Path: path, Table: tableID, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, &tables.LoadError{Path: path, Table: tableID, Err: fmt.Errorf("failed to stat file: %w", err)}
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, &tables.LoadError{Path: path, Table: tableID, Err: fmt.Errorf("failed to open parquet: %w", err)}
	}

	selected, names := selectColumns(pf.Schema().Columns(), tableID)
	if len(selected) == 0 {
		return nil, &tables.LoadError{Path: path, Table: tableID, Err: tables.ErrTableNotFound}
	}

	nrows := int(pf.NumRows())
	if nrows == 0 {
		return nil, &tables.LoadError{Path: path, Table: tableID, Err: fmt.Errorf("%w: no rows", tables.ErrNotTwoDimensional)}
	}

	data := mat.NewDense(nrows, len(names), nil)
	if err := l.fill(pf, selected, data); err != nil {
		return nil, &tables.LoadError{Path: path, Table: tableID, Err: err}
	}

	slog.Debug("Parquet table loaded", "path", path, "table", tableID, "rows", nrows, "cols", len(names), "row_groups", len(pf.RowGroups()))

	return tables.New(data, names...), nil
}

// selectColumns maps leaf column indexes belonging to tableID to their
// position in the output table.
func selectColumns(leaves [][]string, tableID string) (map[int]int, []string) {
	selected := make(map[int]int)
	var names []string
	for idx, leaf := range leaves {
		if len(leaf) == 0 || leaf[0] != tableID {
			continue
		}
		name := strings.Join(leaf, ".")
		if len(leaf) > 1 {
			name = strings.Join(leaf[1:], ".")
		}
		selected[idx] = len(names)
		names = append(names, name)
	}
	return selected, names
}

func (l *Loader) fill(pf *parquet.File, selected map[int]int, data *mat.Dense) error {
	buf := make([]parquet.Row, l.batchSize)
	seen := make([]int, len(selected))
	rowIdx := 0

	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				for i := range seen {
					seen[i] = 0
				}
				for _, v := range row {
					col, ok := selected[v.Column()]
					if !ok {
						continue
					}
					seen[col]++
					if seen[col] > 1 {
						rows.Close()
						return fmt.Errorf("%w: column %d is repeated", tables.ErrNotTwoDimensional, col)
					}
					f, err := toFloat(v)
					if err != nil {
						rows.Close()
						return err
					}
					data.Set(rowIdx, col, f)
				}
				rowIdx++
			}
			if err != nil {
				rows.Close()
				if errors.Is(err, io.EOF) {
					break
				}
				return fmt.Errorf("failed to read rows: %w", err)
			}
			if n == 0 {
				rows.Close()
				break
			}
		}
	}

	return nil
}

func toFloat(v parquet.Value) (float64, error) {
	if v.IsNull() {
		return math.NaN(), nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		if v.Boolean() {
			return 1, nil
		}
		return 0, nil
	case parquet.Int32:
		return float64(v.Int32()), nil
	case parquet.Int64:
		return float64(v.Int64()), nil
	case parquet.Float:
		return float64(v.Float()), nil
	case parquet.Double:
		return v.Double(), nil
	default:
		return 0, fmt.Errorf("%w: non-numeric column of kind %s", tables.ErrNotTwoDimensional, v.Kind())
	}
}

// List implements tables.Lister. Each top-level field is one table.
func (l *Loader) List(path string) ([]tables.Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &tables.LoadError{Path: path, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, &tables.LoadError{Path: path, Err: err}
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, &tables.LoadError{Path: path, Err: err}
	}

	var infos []tables.Info
	index := make(map[string]int)
	for _, leaf := range pf.Schema().Columns() {
		if len(leaf) == 0 {
			continue
		}
		i, ok := index[leaf[0]]
		if !ok {
			i = len(infos)
			index[leaf[0]] = i
			infos = append(infos, tables.Info{Name: leaf[0], Rows: int(pf.NumRows())})
		}
		infos[i].Cols++
	}
	return infos, nil
}
