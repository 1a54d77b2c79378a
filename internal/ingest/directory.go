package ingest

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/helpdesk-core/renewals-tracker/constants"
)

// FileResult is one file's outcome during a directory scan.
type FileResult struct {
	Path string
	Err  string
}

// DirStats aggregates one directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Failed  uint32
}

// ScanDirectory walks root and returns the contract PDFs it contains,
// skipping hidden entries. Unreadable entries are recorded, never fatal.
func ScanDirectory(root string) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.IsAllowedExt(constants.NormalizeExt(filepath.Ext(path))) {
			return nil
		}
		stats.Matched++
		results = append(results, FileResult{Path: path})
		return nil
	})
	if err != nil {
		return results, stats, err
	}
	return results, stats, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
