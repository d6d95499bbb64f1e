package archive

import (
	"context"
	"io"
	"os"

	"github.com/yuhaoze/car/pkg/carerr"
	"github.com/yuhaoze/car/pkg/fsadapter"
	"github.com/yuhaoze/car/pkg/metadata"
)

// packEntry writes one filesystem path's metadata record (and body, for
// REG) to w. parentArchPath is the archive-relative path of the
// enclosing directory ("" for a top-level source, per childArchPath).
func (e *Engine) packEntry(ctx context.Context, w io.Writer, table *HardlinkTable, srcPath string, parentArchPath string) error {
	p := fsadapter.NewPath(srcPath)
	info, err := fsadapter.Lstat(p)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", srcPath).Msg("source entry missing, skipping")
			return nil
		}
		return carerr.Wrap(carerr.IOOpen, "lstat "+srcPath, err)
	}

	name := p.FileName()
	archPath := childArchPath(parentArchPath, name)

	meta := metadata.FileMetadata{
		Name:        name,
		Type:        info.Type,
		Permissions: info.Mode,
		Uid:         info.Uid,
		Gid:         info.Gid,
		AccessTime:  info.AccessTime,
		ModTime:     info.ModTime,
	}

	switch info.Type {
	case fsadapter.REG:
		return e.packRegular(w, table, p, info, meta, archPath)

	case fsadapter.DIR:
		if _, err := meta.WriteTo(w); err != nil {
			return err
		}
		children, err := fsadapter.Enumerate(p)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := checkCancelled(ctx); err != nil {
				return err
			}
			if err := e.packEntry(ctx, w, table, p.Join(child).String(), archPath); err != nil {
				return err
			}
		}
		sentinel := metadata.PopSentinel()
		_, err = sentinel.WriteTo(w)
		return err

	case fsadapter.FLNK:
		target, err := fsadapter.ReadSymlink(p)
		if err != nil {
			return err
		}
		meta.LinkTarget = target
		_, err = meta.WriteTo(w)
		return err

	case fsadapter.FIFO:
		_, err := meta.WriteTo(w)
		return err

	default:
		log.Warn().Str("path", srcPath).Str("type", info.Type.String()).Msg("skipping unsupported file type")
		return nil
	}
}

func (e *Engine) packRegular(w io.Writer, table *HardlinkTable, p fsadapter.Path, info fsadapter.Info, meta metadata.FileMetadata, archPath string) error {
	if info.Nlink > 1 {
		if first, ok := table.Lookup(info.Dev, info.Ino); ok {
			meta.IsHardlinkRef = true
			meta.LinkTarget = first
			_, err := meta.WriteTo(w)
			return err
		}
		table.Record(info.Dev, info.Ino, archPath)
	}

	meta.Size = uint64(info.Size)
	if _, err := meta.WriteTo(w); err != nil {
		return err
	}

	f, err := os.Open(p.String())
	if err != nil {
		return carerr.Wrap(carerr.IORead, "open "+p.String(), err)
	}
	defer f.Close()

	buf := make([]byte, e.bufferSize())
	written, err := io.CopyBuffer(w, io.LimitReader(f, int64(info.Size)), buf)
	if err != nil {
		return carerr.Wrap(carerr.IORead, "read "+p.String(), err)
	}
	if written != info.Size {
		return carerr.New(carerr.IORead, "short read on "+p.String())
	}
	return nil
}
