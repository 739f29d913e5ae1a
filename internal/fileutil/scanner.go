package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// FindOptions configures candidate lookup.
type FindOptions struct {
	// CaseInsensitive matches file names without regard to case.
	CaseInsensitive bool
	// Recursive descends into subdirectories. Hidden directories are skipped.
	Recursive bool
}

// Candidate is a regular file whose name matched a file name glob.
type Candidate struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// FindCandidates lists the regular files under dir whose base name matches
// glob. Paths are absolute and sorted.
func FindCandidates(dir, glob string, opts FindOptions) ([]Candidate, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	if !doublestar.ValidatePattern(glob) {
		return nil, fmt.Errorf("invalid file pattern %q: %w", glob, doublestar.ErrBadPattern)
	}
	if opts.CaseInsensitive {
		glob = strings.ToLower(glob)
	}

	candidates := make([]Candidate, 0)
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees cannot hold candidates we could scan anyway.
			if path == dir {
				return err
			}
			return nil
		}
		if path == dir {
			return nil
		}

		if d.IsDir() {
			if !opts.Recursive || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		name := d.Name()
		if opts.CaseInsensitive {
			name = strings.ToLower(name)
		}
		matched, err := doublestar.Match(glob, name)
		if err != nil || !matched {
			return err
		}

		fileInfo, err := d.Info()
		if err != nil {
			return nil
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", path, err)
		}

		candidates = append(candidates, Candidate{
			Path:    absPath,
			Size:    fileInfo.Size(),
			ModTime: fileInfo.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Path < candidates[j].Path
	})
	return candidates, nil
}
