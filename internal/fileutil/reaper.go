package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrReadOnly is wrapped by DeleteDirectory when the tree holds a read-only entry.
var ErrReadOnly = errors.New("entry is read-only")

// ErrNotDirectory is wrapped by DeleteDirectory when path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Reaper deletes directory trees. It never changes attributes itself;
// callers that want to force a deletion clear them with ClearReadOnly and
// try again.
type Reaper struct {
	attrs Attributes
}

// NewReaper creates a Reaper that inspects entries through attrs.
func NewReaper(attrs Attributes) *Reaper {
	return &Reaper{attrs: attrs}
}

// DeleteDirectory removes path and everything below it using the OS host.
func DeleteDirectory(path string) error {
	return NewReaper(OSHost()).DeleteDirectory(path)
}

// DeleteDirectory removes path and everything below it. A read-only entry
// anywhere in the tree, the root included, fails the call before anything is
// removed. Every returned error names path. A missing path is not an error;
// a path that is not a directory is.
func (r *Reaper) DeleteDirectory(path string) error {
	info, err := os.Lstat(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not delete directory %s: %w", path, err)
	}
	if err == nil && !info.IsDir() {
		return fmt.Errorf("could not delete directory %s: %w", path, ErrNotDirectory)
	}

	readOnly, err := r.findReadOnly(path)
	if err != nil {
		return fmt.Errorf("could not delete directory %s: %w", path, err)
	}
	if readOnly != "" {
		return fmt.Errorf("could not delete directory %s: %w: %s", path, ErrReadOnly, readOnly)
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("could not delete directory %s: %w", path, err)
	}
	return nil
}

// findReadOnly returns the first entry under root that is not writable.
func (r *Reaper) findReadOnly(root string) (string, error) {
	var readOnly string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}

		writable, err := r.attrs.IsWritable(path)
		if err != nil {
			return err
		}
		if !writable {
			readOnly = path
			return fs.SkipAll
		}
		return nil
	})
	return readOnly, err
}

// ClearReadOnly makes every entry of the tree at root writable.
func (r *Reaper) ClearReadOnly(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return r.attrs.SetWritable(path, true)
	})
}

// TempDirectory creates a new, uniquely named directory below the OS temp
// directory and returns its path.
func TempDirectory() (string, error) {
	dir := filepath.Join(os.TempDir(), "gtprobe-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	return dir, nil
}
