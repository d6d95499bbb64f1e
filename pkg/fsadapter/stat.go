package fsadapter

import (
	"os"

	"golang.org/x/sys/unix"
)

// Info is the information recovered from lstat(2), typed the way the
// metadata record and the HardlinkTable need it.
type Info struct {
	Type       FileType
	Mode       uint16 // POSIX permission bits only (no type bits)
	Uid, Gid   uint32
	Size       int64
	AccessTime int64 // seconds since epoch
	ModTime    int64 // seconds since epoch
	Dev        uint64
	Ino        uint64
	Nlink      uint64
}

func typeFromStatMode(m uint32) FileType {
	switch m & unix.S_IFMT {
	case unix.S_IFREG:
		return REG
	case unix.S_IFDIR:
		return DIR
	case unix.S_IFLNK:
		return FLNK
	case unix.S_IFIFO:
		return FIFO
	case unix.S_IFSOCK:
		return SOCK
	case unix.S_IFCHR:
		return CHR
	case unix.S_IFBLK:
		return BLK
	default:
		return Unknown
	}
}

// Lstat reports p's type via lstat(2), so symlinks are reported as FLNK
// rather than followed.
func Lstat(p Path) (Info, error) {
	var st unix.Stat_t
	if err := unix.Lstat(p.String(), &st); err != nil {
		if err == unix.ENOENT {
			return Info{}, os.ErrNotExist
		}
		return Info{}, &os.PathError{Op: "lstat", Path: p.String(), Err: err}
	}
	return Info{
		Type:       typeFromStatMode(st.Mode),
		Mode:       uint16(st.Mode & 0o7777),
		Uid:        st.Uid,
		Gid:        st.Gid,
		Size:       st.Size,
		AccessTime: int64(st.Atim.Sec),
		ModTime:    int64(st.Mtim.Sec),
		Dev:        uint64(st.Dev),
		Ino:        st.Ino,
		Nlink:      uint64(st.Nlink),
	}, nil
}
