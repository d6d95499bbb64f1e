package archive

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/yuhaoze/car/pkg/carerr"
	"github.com/yuhaoze/car/pkg/fsadapter"
	"github.com/yuhaoze/car/pkg/metadata"
)

// dirFrame tracks one open directory level during unpack: its
// destination path and its archive-relative path (used to key
// restoreMap for hardlink back-references).
type dirFrame struct {
	dest     fsadapter.Path
	archPath string
}

// unpackRaw restores an archive from a raw (uncompressed) record
// stream, replaying the directory-nesting pop-sentinel protocol and
// resolving hardlink back-references as they're encountered.
func (e *Engine) unpackRaw(ctx context.Context, in io.Reader, destination string) error {
	stack := []dirFrame{{dest: fsadapter.NewPath(destination), archPath: ""}}
	restored := newRestoreMap()

	for {
		if err := checkCancelled(ctx); err != nil {
			return err
		}

		m, err := metadata.ReadFrom(in)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if m.IsPopSentinel() {
			if len(stack) <= 1 {
				return carerr.New(carerr.MalformedArchive, "directory stack underflow (over-pop)")
			}
			stack = stack[:len(stack)-1]
			continue
		}

		top := stack[len(stack)-1]
		target := top.dest.Join(m.Name)
		archPath := childArchPath(top.archPath, m.Name)

		switch m.Type {
		case fsadapter.REG:
			if m.IsHardlinkRef {
				firstDest, ok := restored.lookup(m.LinkTarget)
				if !ok {
					return carerr.New(carerr.MalformedArchive, "dangling hardlink reference to "+m.LinkTarget)
				}
				if err := fsadapter.Hardlink(fsadapter.NewPath(firstDest), target); err != nil {
					return err
				}
			} else {
				if err := restoreRegularBody(in, target, m); err != nil {
					return err
				}
				restored.record(archPath, target.String())
			}
			if err := m.Apply(target, warnf); err != nil {
				return err
			}

		case fsadapter.DIR:
			if err := fsadapter.MakeDir(target, m.Permissions); err != nil {
				return err
			}
			if err := m.Apply(target, warnf); err != nil {
				return err
			}
			stack = append(stack, dirFrame{dest: target, archPath: archPath})

		case fsadapter.FLNK:
			if err := fsadapter.Symlink(m.LinkTarget, target); err != nil {
				return err
			}
			if err := m.Apply(target, warnf); err != nil {
				return err
			}

		case fsadapter.FIFO:
			if err := fsadapter.MakeFifo(target, m.Permissions); err != nil {
				return err
			}
			if err := m.Apply(target, warnf); err != nil {
				return err
			}

		default:
			return carerr.New(carerr.MalformedArchive, "unrestorable entry type for "+m.Name)
		}
	}

	if len(stack) != 1 {
		return carerr.New(carerr.MalformedArchive, "directory stack not balanced at end of archive")
	}
	return nil
}

// restoreRegularBody copies exactly m.Size bytes from in into a fresh
// file at target. It stages the write under a random temporary name in
// the same directory and renames into place, so a write failure never
// leaves a half-written file at the final name.
func restoreRegularBody(in io.Reader, target fsadapter.Path, m metadata.FileMetadata) error {
	staging := target.Parent().Join("." + uuid.NewString() + ".car-tmp").String()

	f, err := os.OpenFile(staging, os.O_WRONLY|os.O_CREATE|os.O_EXCL, os.FileMode(m.Permissions))
	if err != nil {
		return carerr.Wrap(carerr.IOWrite, "create "+target.String(), err)
	}

	written, err := io.CopyN(f, in, int64(m.Size))
	closeErr := f.Close()
	if err != nil && err != io.EOF {
		os.Remove(staging)
		return carerr.Wrap(carerr.IOWrite, "write "+target.String(), err)
	}
	if uint64(written) != m.Size {
		os.Remove(staging)
		return carerr.New(carerr.MalformedArchive, "truncated body for "+target.String())
	}
	if closeErr != nil {
		os.Remove(staging)
		return carerr.Wrap(carerr.IOWrite, "close "+target.String(), closeErr)
	}

	if err := os.Rename(staging, target.String()); err != nil {
		os.Remove(staging)
		return carerr.Wrap(carerr.IOWrite, "rename into place "+target.String(), err)
	}
	return nil
}

func warnf(msg string) {
	log.Warn().Msg(msg)
}
