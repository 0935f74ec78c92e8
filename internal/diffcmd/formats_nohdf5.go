//go:build nohdf5

package diffcmd

import "github.com/lehigh-university-libraries/h5diff/internal/tables"

// Built with -tags nohdf5: only Parquet files can be read.
func registerHDF5(*tables.Registry) {}
