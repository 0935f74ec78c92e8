package tables

import (
	"fmt"
	"sort"
	"strings"
)

// Registry dispatches Load and List calls to a reader chosen by file extension.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register associates a loader with one or more extensions (".h5", ".parquet").
func (r *Registry) Register(l Loader, exts ...string) *Registry {
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.loaders[ext] = l
	}
	return r
}

// Extensions lists the registered extensions in lexical order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (r *Registry) lookup(path string) (Loader, error) {
	ext := Ext(path)
	l, ok := r.loaders[ext]
	if !ok {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedFormat, ext, r.Extensions())}
	}
	return l, nil
}

// Load implements Loader.
func (r *Registry) Load(path, tableID string) (*Table, error) {
	l, err := r.lookup(path)
	if err != nil {
		return nil, err
	}
	return l.Load(path, tableID)
}

// List implements Lister when the selected loader supports listing.
func (r *Registry) List(path string) ([]Info, error) {
	l, err := r.lookup(path)
	if err != nil {
		return nil, err
	}
	lister, ok := l.(Lister)
	if !ok {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: listing not available for %s", ErrUnsupportedFormat, Ext(path))}
	}
	return lister.List(path)
}
