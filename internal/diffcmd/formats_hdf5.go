//go:build !nohdf5

package diffcmd

import (
	"github.com/lehigh-university-libraries/h5diff/internal/tables"
	"github.com/lehigh-university-libraries/h5diff/internal/tables/h5"
)

func registerHDF5(r *tables.Registry) {
	r.Register(h5.NewLoader(), ".h5", ".hdf5", ".he5")
}
