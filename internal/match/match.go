// Package match pairs the data files of an "old" run with their counterparts
// in a "new" run.
package match

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPattern selects HDF5 files.
const DefaultPattern = "*.h5"

// Pair holds the two files compared for one case.
type Pair struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// Options controls how the old tree is walked.
type Options struct {
	// Recursive descends into subdirectories of the old tree.
	Recursive bool
	// Pattern is a filepath.Match glob applied to base names.
	Pattern string
	// Logger receives collision warnings. Nil uses slog.Default().
	Logger *slog.Logger
}

// Error is a fatal matching failure: a missing root or a failed walk step.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("match %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CaseName derives the case identifier from a file path: the base name up to
// its first dot.
func CaseName(path string) string {
	name, _, _ := strings.Cut(filepath.Base(path), ".")
	return name
}

// Match returns the case name to file pair mapping for every file of dirOld
// matching the pattern whose counterpart exists under dirNew.
//
// When dirOld is a regular file the result is that single pair, with dirNew
// used as the literal counterpart path.
func Match(dirOld, dirNew string, opts Options) (map[string]Pair, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, &Error{Path: pattern, Err: fmt.Errorf("invalid pattern: %w", err)}
	}

	info, err := os.Stat(dirOld)
	if err != nil {
		return nil, &Error{Path: dirOld, Err: err}
	}
	if !info.IsDir() {
		return map[string]Pair{CaseName(dirOld): {Old: dirOld, New: dirNew}}, nil
	}

	newInfo, err := os.Stat(dirNew)
	if err != nil {
		return nil, &Error{Path: dirNew, Err: err}
	}
	if !newInfo.IsDir() {
		return nil, &Error{Path: dirNew, Err: fmt.Errorf("not a directory")}
	}

	matches := make(map[string]Pair)
	err = filepath.WalkDir(dirOld, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dirOld && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		ok, _ := filepath.Match(pattern, d.Name())
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(dirOld, path)
		if err != nil {
			return err
		}
		pathNew := filepath.Join(dirNew, rel)

		newInfo, err := os.Stat(pathNew)
		if err != nil || newInfo.IsDir() {
			logger.Debug("No counterpart in new tree", "old", path, "new", pathNew)
			return nil
		}

		name := CaseName(path)
		if prev, exists := matches[name]; exists {
			logger.Warn("Case name collision, keeping later file", "case", name, "dropped", prev.Old, "kept", path)
		}
		matches[name] = Pair{Old: path, New: pathNew}
		return nil
	})
	if err != nil {
		return nil, &Error{Path: dirOld, Err: err}
	}

	logger.Debug("Matched files", "old", dirOld, "new", dirNew, "pairs", len(matches), "recursive", opts.Recursive)

	return matches, nil
}
