// Package h5 reads numeric tables from HDF5 files.
//
// It links against the HDF5 C library through gonum.org/v1/hdf5, so building
// it requires cgo and libhdf5. Building with -tags nohdf5 leaves the loader
// out.
package h5
