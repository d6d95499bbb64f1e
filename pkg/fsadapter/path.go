// Package fsadapter exposes POSIX filesystem primitives as typed Go
// operations: stat/lstat, directory enumeration, symlink and hardlink
// creation, fifo creation, ownership/permission/timestamp application,
// and removal.
package fsadapter

import (
	"os"
	"path/filepath"
	"strings"
)

// Path is an owned POSIX path string, normalized so it never ends with a
// trailing '/' (unless it is exactly "/").
type Path struct {
	s string
}

// NewPath normalizes p and returns a Path.
func NewPath(p string) Path {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return Path{s: p}
}

func (p Path) String() string { return p.s }

// Exists reports whether the path resolves to anything via lstat.
func (p Path) Exists() bool {
	_, err := Lstat(p)
	return err == nil
}

// Type returns the path's FileType via lstat (symlinks are reported as
// FLNK, never followed).
func (p Path) Type() (FileType, error) {
	meta, err := Lstat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return NotExist, nil
		}
		return Unknown, err
	}
	return meta.Type, nil
}

// Parent returns the path's parent directory.
func (p Path) Parent() Path {
	return NewPath(filepath.Dir(p.s))
}

// FileName returns the path's leaf component.
func (p Path) FileName() string {
	return filepath.Base(p.s)
}

// Join appends a child component to p.
func (p Path) Join(child string) Path {
	return NewPath(filepath.Join(p.s, child))
}

// SplitComponents splits the path into its non-empty components.
func (p Path) SplitComponents() []string {
	clean := filepath.Clean(p.s)
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return nil
	}
	return strings.Split(clean, "/")
}

// ToAbs converts a relative path to an absolute one, resolved against the
// process's current working directory. The cwd is read once per call and
// never mutated.
func (p Path) ToAbs() (Path, error) {
	if filepath.IsAbs(p.s) {
		return p, nil
	}
	abs, err := filepath.Abs(p.s)
	if err != nil {
		return Path{}, err
	}
	return NewPath(abs), nil
}
