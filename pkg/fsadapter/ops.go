package fsadapter

import (
	"os"
	"sort"

	"golang.org/x/sys/unix"

	"github.com/yuhaoze/car/pkg/carerr"
)

// Enumerate lists the leaf names of dir's children, excluding "." and
// "..", sorted lexicographically by byte order so the packager produces
// a stable, reproducible archive given the same input tree.
func Enumerate(dir Path) ([]string, error) {
	f, err := os.Open(dir.String())
	if err != nil {
		return nil, carerr.Wrap(carerr.IOOpen, "opendir "+dir.String(), err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, carerr.Wrap(carerr.IOOpen, "readdir "+dir.String(), err)
	}
	sort.Strings(names)
	return names, nil
}

// ReadSymlink returns the textual target of the symlink at p.
func ReadSymlink(p Path) (string, error) {
	target, err := os.Readlink(p.String())
	if err != nil {
		return "", carerr.Wrap(carerr.IORead, "readlink "+p.String(), err)
	}
	return target, nil
}

// MakeDir creates a directory at p with the given mode. It is
// idempotent: EEXIST is treated as success.
func MakeDir(p Path, mode uint16) error {
	err := os.Mkdir(p.String(), os.FileMode(mode))
	if err != nil && !os.IsExist(err) {
		return carerr.Wrap(carerr.IOWrite, "mkdir "+p.String(), err)
	}
	return nil
}

// MakeFifo creates a FIFO (named pipe) at p.
func MakeFifo(p Path, mode uint16) error {
	if err := unix.Mkfifo(p.String(), uint32(mode)); err != nil {
		return carerr.Wrap(carerr.IOWrite, "mkfifo "+p.String(), err)
	}
	return nil
}

// Symlink creates a symlink at path pointing to target.
func Symlink(target string, path Path) error {
	if err := os.Symlink(target, path.String()); err != nil {
		return carerr.Wrap(carerr.IOWrite, "symlink "+path.String(), err)
	}
	return nil
}

// Hardlink creates a new hardlink at newPath pointing at the same inode
// as existing.
func Hardlink(existing, newPath Path) error {
	if err := os.Link(existing.String(), newPath.String()); err != nil {
		return carerr.Wrap(carerr.IOWrite, "link "+newPath.String(), err)
	}
	return nil
}

// Remove deletes a single filesystem entry.
func Remove(p Path) error {
	if err := os.Remove(p.String()); err != nil {
		return carerr.Wrap(carerr.IOWrite, "remove "+p.String(), err)
	}
	return nil
}

// RemoveAll recursively deletes p.
func RemoveAll(p Path) error {
	if err := os.RemoveAll(p.String()); err != nil {
		return carerr.Wrap(carerr.IOWrite, "remove_all "+p.String(), err)
	}
	return nil
}
