package diffcmd

import (
	"github.com/lehigh-university-libraries/h5diff/internal/tables"
	"github.com/lehigh-university-libraries/h5diff/internal/tables/pq"
)

// formats returns the registry of every table format compiled in.
func formats() *tables.Registry {
	r := tables.NewRegistry().Register(pq.NewLoader(), ".parquet", ".pq")
	registerHDF5(r)
	return r
}
