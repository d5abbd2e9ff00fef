package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/quotes-tracker/constants"
)

// DirStats counts what a directory walk saw.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Failed  uint32
}

// WalkFailure is a path the walk could not visit.
type WalkFailure struct {
	Path string
	Err  error
}

// Discover walks root and returns the documents with an allowed extension
// in lexical order. Unreadable entries are reported, not fatal. limit <= 0
// means no limit.
func Discover(root string, skipHidden bool, limit int) ([]string, []WalkFailure, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, errors.New("root path is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, DirStats{}, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, DirStats{}, fmt.Errorf("%s is not a directory", root)
	}

	var paths []string
	var failures []WalkFailure
	var stats DirStats

	errLimit := errors.New("limit reached")
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			failures = append(failures, WalkFailure{Path: path, Err: walkErr})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		if limit > 0 && len(paths) >= limit {
			return errLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimit) {
		return paths, failures, stats, fmt.Errorf("walk: %w", err)
	}
	return paths, failures, stats, nil
}

// AllowedExt reports whether ext (with or without the dot) is a document extension.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
