package fileutil

import (
	"fmt"
	"os"
	"runtime"
)

// PathSyntax decides whether strings are legal paths and file names for a
// particular filesystem family. Implementations never touch the filesystem.
type PathSyntax interface {
	// Separators returns the characters that delimit path components.
	Separators() string
	// IsWellFormedAbsolutePath reports whether dir is a syntactically legal
	// absolute directory path.
	IsWellFormedAbsolutePath(dir string) bool
	// IsWellFormedFileName reports whether name is a legal file name. The
	// glob metacharacters * and ? are accepted.
	IsWellFormedFileName(name string) bool
	// CaseInsensitive reports whether file names compare without case.
	CaseInsensitive() bool
}

// Attributes reads and changes the write permission of filesystem entries.
type Attributes interface {
	IsWritable(path string) (bool, error)
	SetWritable(path string, writable bool) error
}

// Host combines the path syntax and attribute handling of one platform.
type Host interface {
	PathSyntax
	Attributes
}

// HostSyntax returns the path syntax of the running operating system.
func HostSyntax() PathSyntax {
	if runtime.GOOS == "windows" {
		return WindowsSyntax{}
	}
	return POSIXSyntax{}
}

// SyntaxByName resolves "host", "windows" or "posix".
func SyntaxByName(name string) (PathSyntax, error) {
	switch name {
	case "", "host":
		return HostSyntax(), nil
	case "windows":
		return WindowsSyntax{}, nil
	case "posix":
		return POSIXSyntax{}, nil
	default:
		return nil, fmt.Errorf("unknown path syntax %q (want host, windows or posix)", name)
	}
}

type osHost struct {
	PathSyntax
}

// OSHost returns the Host backed by the real filesystem.
func OSHost() Host {
	return osHost{PathSyntax: HostSyntax()}
}

// IsWritable reports whether the owner write bit is set. On Windows the bit
// mirrors the read-only attribute.
func (osHost) IsWritable(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return true, nil
	}
	return info.Mode().Perm()&0200 != 0, nil
}

// SetWritable sets or clears the write bits of path. Symlinks are left alone.
func (osHost) SetWritable(path string, writable bool) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil
	}

	perm := info.Mode().Perm()
	if writable {
		perm |= 0200
	} else {
		perm &^= 0222
	}
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("failed to change write permission of %s: %w", path, err)
	}
	return nil
}
