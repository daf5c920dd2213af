package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidRoot is returned when the scan root is missing or is not a
// directory.
var ErrInvalidRoot = errors.New("invalid scan root")

// ValidateRoot checks that root exists and is a directory.
func ValidateRoot(root string) error {
	fi, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}
	return nil
}

// Scanner finds source files below a root directory.
type Scanner struct {
	// Extension is matched as an exact, case-sensitive suffix of the file
	// name. Defaults to DefaultExtension.
	Extension string
	// OutputDir is where destinations are placed.
	OutputDir string
}

// Match reports whether name is a source file.
func (s Scanner) Match(name string) bool {
	ext := s.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	return strings.HasSuffix(name, ext)
}

// Scan walks root recursively and calls fn with a WorkItem for each
// matching file as soon as it is found. Directories that cannot be read
// are skipped. Scan stops early if ctx is cancelled or fn returns an error.
func (s Scanner) Scan(ctx context.Context, root string, fn func(WorkItem) error) error {
	if err := ValidateRoot(root); err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %v", ErrInvalidRoot, err)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !s.Match(d.Name()) {
			return nil
		}
		return fn(NewWorkItem(path, s.OutputDir))
	})
}
