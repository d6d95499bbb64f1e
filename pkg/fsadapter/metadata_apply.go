package fsadapter

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// AppliedMetadata is the subset of FileMetadata that ApplyMetadata needs;
// it is duplicated here (rather than importing pkg/metadata) so this
// package never needs to depend on the archive record format —
// metadata.FileMetadata converts itself into this struct before calling
// ApplyMetadata.
type AppliedMetadata struct {
	Type       FileType
	Mode       uint16
	Uid, Gid   uint32
	AccessTime int64
	ModTime    int64
}

// ApplyMetadata restores meta onto the filesystem entry at path, in the
// fixed order required to avoid self-denial of access:
//  1. timestamps (utimensat, AT_SYMLINK_NOFOLLOW)
//  2. ownership (lchown, attempted only if running as root; failures are
//     logged but non-fatal)
//  3. permissions (chmod; skipped for FLNK, which carries no mode)
//
// Every step is best-effort: a restore with partial
// metadata is more useful than no restore at all, so failures are
// reported through logWarn rather than aborting the caller.
func ApplyMetadata(path Path, meta AppliedMetadata, logWarn func(string)) error {
	ts := []unix.Timespec{
		unix.NsecToTimespec(time.Unix(meta.AccessTime, 0).UnixNano()),
		unix.NsecToTimespec(time.Unix(meta.ModTime, 0).UnixNano()),
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, path.String(), ts, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		if logWarn != nil {
			logWarn("cannot set timestamps on " + path.String() + ": " + err.Error())
		}
	}

	if os.Geteuid() == 0 {
		if err := unix.Lchown(path.String(), int(meta.Uid), int(meta.Gid)); err != nil {
			if logWarn != nil {
				logWarn("cannot change owner of " + path.String() + ": " + err.Error())
			}
		}
	}

	if meta.Type != FLNK {
		if err := unix.Chmod(path.String(), uint32(meta.Mode)); err != nil {
			if logWarn != nil {
				logWarn("cannot change permissions of " + path.String() + ": " + err.Error())
			}
		}
	}

	return nil
}
