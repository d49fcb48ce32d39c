package source

import (
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/multierr"
)

// Expand resolves glob patterns into a sorted, de-duplicated file list.
// A pattern that matches nothing is an error.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("expand %q: no matching files", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// Files reads several inputs back to back. Options apply to every file, so
// each file's header is skipped independently.
type Files struct {
	paths []string
	opts  []Option

	cur      *Reader
	next     int
	err      error
	closeErr error
}

// OpenFiles returns a reader over paths. Files are opened lazily.
func OpenFiles(paths []string, opts ...Option) *Files {
	return &Files{paths: paths, opts: opts}
}

// Next returns the next line across all files.
func (f *Files) Next() (Line, bool) {
	for f.err == nil {
		if f.cur == nil {
			if f.next >= len(f.paths) {
				return Line{}, false
			}
			r, err := Open(f.paths[f.next], f.opts...)
			f.next++
			if err != nil {
				f.err = err
				return Line{}, false
			}
			f.cur = r
		}

		if line, ok := f.cur.Next(); ok {
			return line, true
		}

		if err := f.cur.Err(); err != nil {
			f.err = fmt.Errorf("%s: %w", f.cur.name, err)
		}
		f.closeErr = multierr.Append(f.closeErr, f.cur.Close())
		f.cur = nil
	}
	return Line{}, false
}

// Err returns the first open, read or decode error.
func (f *Files) Err() error {
	return f.err
}

// FilesDone returns how many files have been fully consumed or failed.
func (f *Files) FilesDone() int {
	if f.cur != nil {
		return f.next - 1
	}
	return f.next
}

// Close closes the current file and reports every close error seen.
func (f *Files) Close() error {
	if f.cur != nil {
		f.closeErr = multierr.Append(f.closeErr, f.cur.Close())
		f.cur = nil
	}
	return f.closeErr
}
