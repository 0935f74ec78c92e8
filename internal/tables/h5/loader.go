//go:build !nohdf5

package h5

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/h5diff/internal/tables"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/hdf5"
)

// Loader loads 2-D datasets from HDF5 files.
//
// A table identifier starting with "/" is an absolute dataset path. A bare
// name is looked up under the first top-level group of the file (the layout
// written by the simulation runs) and then under the root group.
type Loader struct{}

// NewLoader creates an HDF5 loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements tables.Loader.
func (l *Loader) Load(path, tableID string) (*tables.Table, error) {
	slog.Debug("Opening HDF5 file", "path", path, "table", tableID)

	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &tables.LoadError{Path: path, Table: tableID, Err: err}
	}
	defer f.Close()

	ds, err := openDataset(f, tableID)
	if err != nil {
		return nil, &tables.LoadError{Path: path, Table: tableID, Err: err}
	}
	defer ds.Close()

	data, err := readDense(ds)
	if err != nil {
		return nil, &tables.LoadError{Path: path, Table: tableID, Err: err}
	}

	rows, cols := data.Dims()
	slog.Debug("HDF5 table loaded", "path", path, "table", tableID, "rows", rows, "cols", cols)

	return tables.New(data), nil
}

// openDataset resolves tableID to a dataset.
func openDataset(f *hdf5.File, tableID string) (*hdf5.Dataset, error) {
	if strings.HasPrefix(tableID, "/") {
		if !f.LinkExists(tableID) {
			return nil, tables.ErrTableNotFound
		}
		return f.OpenDataset(tableID)
	}

	var candidates []string
	if group, ok := firstGroup(f); ok {
		candidates = append(candidates, "/"+group+"/"+tableID)
	}
	candidates = append(candidates, "/"+tableID)

	for _, candidate := range candidates {
		if !f.LinkExists(candidate) {
			continue
		}
		return f.OpenDataset(candidate)
	}

	return nil, tables.ErrTableNotFound
}

// firstGroup returns the name of the first group directly under "/".
func firstGroup(f *hdf5.File) (string, bool) {
	n, err := f.NumObjects()
	if err != nil {
		return "", false
	}
	for i := uint(0); i < n; i++ {
		typ, err := f.ObjectTypeByIndex(i)
		if err != nil || typ != hdf5.H5G_GROUP {
			continue
		}
		name, err := f.ObjectNameByIndex(i)
		if err != nil {
			continue
		}
		return name, true
	}
	return "", false
}

func readDense(ds *hdf5.Dataset) (*mat.Dense, error) {
	space := ds.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataspace: %w", err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("%w: dataset has %d dimensions", tables.ErrNotTwoDimensional, len(dims))
	}

	rows, cols := int(dims[0]), int(dims[1])
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: empty dataset %dx%d", tables.ErrNotTwoDimensional, rows, cols)
	}

	// HDF5 converts integer and float storage types to the float64 buffer.
	buf := make([]float64, rows*cols)
	if err := ds.Read(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", tables.ErrNotTwoDimensional, err)
	}

	return mat.NewDense(rows, cols, buf), nil
}

// List implements tables.Lister by walking every group of the file.
func (l *Loader) List(path string) ([]tables.Info, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &tables.LoadError{Path: path, Err: err}
	}
	defer f.Close()

	var infos []tables.Info
	if err := walkGroup(&f.CommonFG, "", &infos); err != nil {
		return nil, &tables.LoadError{Path: path, Err: err}
	}
	return infos, nil
}

func walkGroup(g *hdf5.CommonFG, prefix string, infos *[]tables.Info) error {
	n, err := g.NumObjects()
	if err != nil {
		return err
	}

	for i := uint(0); i < n; i++ {
		name, err := g.ObjectNameByIndex(i)
		if err != nil {
			return err
		}
		typ, err := g.ObjectTypeByIndex(i)
		if err != nil {
			return err
		}

		full := prefix + "/" + name
		switch typ {
		case hdf5.H5G_GROUP:
			sub, err := g.OpenGroup(name)
			if err != nil {
				return err
			}
			err = walkGroup(&sub.CommonFG, full, infos)
			sub.Close()
			if err != nil {
				return err
			}
		case hdf5.H5G_DATASET:
			*infos = append(*infos, describe(g, name, full))
		}
	}
	return nil
}

func describe(g *hdf5.CommonFG, name, full string) tables.Info {
	info := tables.Info{Name: full}

	ds, err := g.OpenDataset(name)
	if err != nil {
		info.Note = err.Error()
		return info
	}
	defer ds.Close()

	space := ds.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	switch {
	case err != nil:
		info.Note = err.Error()
	case len(dims) == 2:
		info.Rows, info.Cols = int(dims[0]), int(dims[1])
	default:
		info.Note = fmt.Sprintf("%d-D dataset", len(dims))
	}
	return info
}
