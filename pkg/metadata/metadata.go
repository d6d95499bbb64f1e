// Package metadata defines the canonical per-entry metadata record and
// its fixed binary layout, shared by the packer and the restorer.
package metadata

import (
	"encoding/binary"
	"io"

	"github.com/yuhaoze/car/pkg/carerr"
	"github.com/yuhaoze/car/pkg/fsadapter"
)

// FileMetadata is the record associated with every archive entry.
type FileMetadata struct {
	Name          string
	Type          fsadapter.FileType
	Permissions   uint16
	Uid, Gid      uint32
	AccessTime    int64
	ModTime       int64
	Size          uint64
	LinkTarget    string
	IsHardlinkRef bool
}

// asApplied converts m into the struct that fsadapter.ApplyMetadata takes.
func (m FileMetadata) asApplied() fsadapter.AppliedMetadata {
	return fsadapter.AppliedMetadata{
		Type:       m.Type,
		Mode:       m.Permissions,
		Uid:        m.Uid,
		Gid:        m.Gid,
		AccessTime: m.AccessTime,
		ModTime:    m.ModTime,
	}
}

// Apply restores m onto the filesystem entry at path.
func (m FileMetadata) Apply(path fsadapter.Path, logWarn func(string)) error {
	return fsadapter.ApplyMetadata(path, m.asApplied(), logWarn)
}

const maxNameLen = 1<<16 - 1

// WriteTo serializes m's fixed-layout record to w (not including the REG
// body payload, which the caller streams separately). All integers are
// little-endian.
func (m FileMetadata) WriteTo(w io.Writer) (int64, error) {
	if len(m.Name) > maxNameLen {
		return 0, carerr.New(carerr.Unknown, "name too long: "+m.Name)
	}
	if len(m.LinkTarget) > maxNameLen {
		return 0, carerr.New(carerr.Unknown, "link target too long: "+m.LinkTarget)
	}

	var n int64
	write := func(v any) error {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return carerr.Wrap(carerr.IOWrite, "write metadata field", err)
		}
		return nil
	}

	if err := write(uint16(len(m.Name))); err != nil {
		return n, err
	}
	n += 2
	if _, err := io.WriteString(w, m.Name); err != nil {
		return n, carerr.Wrap(carerr.IOWrite, "write metadata name", err)
	}
	n += int64(len(m.Name))

	if err := write(uint8(m.Type)); err != nil {
		return n, err
	}
	n++
	if err := write(m.Permissions); err != nil {
		return n, err
	}
	n += 2
	if err := write(m.Uid); err != nil {
		return n, err
	}
	n += 4
	if err := write(m.Gid); err != nil {
		return n, err
	}
	n += 4
	if err := write(m.AccessTime); err != nil {
		return n, err
	}
	n += 8
	if err := write(m.ModTime); err != nil {
		return n, err
	}
	n += 8
	if err := write(m.Size); err != nil {
		return n, err
	}
	n += 8

	if err := write(uint16(len(m.LinkTarget))); err != nil {
		return n, err
	}
	n += 2
	if _, err := io.WriteString(w, m.LinkTarget); err != nil {
		return n, carerr.Wrap(carerr.IOWrite, "write metadata link target", err)
	}
	n += int64(len(m.LinkTarget))

	var hardRef uint8
	if m.IsHardlinkRef {
		hardRef = 1
	}
	if err := write(hardRef); err != nil {
		return n, err
	}
	n++

	return n, nil
}

// ReadFrom deserializes one fixed-layout record from r. It returns
// carerr.MalformedArchive if any field is truncated or internally
// inconsistent.
func ReadFrom(r io.Reader) (FileMetadata, error) {
	var m FileMetadata

	read := func(v any) error {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return carerr.Wrap(carerr.MalformedArchive, "read metadata field", err)
		}
		return nil
	}

	// A clean io.EOF before the first field means there is no further
	// record; anywhere later it means the record was truncated.
	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		if err == io.EOF {
			return m, err
		}
		return m, carerr.Wrap(carerr.MalformedArchive, "read metadata field", err)
	}

	nameBuf := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return m, carerr.Wrap(carerr.MalformedArchive, "read metadata name", err)
	}
	m.Name = string(nameBuf)

	var typ uint8
	if err := read(&typ); err != nil {
		return m, err
	}
	m.Type = fsadapter.FileType(typ)

	if err := read(&m.Permissions); err != nil {
		return m, err
	}
	if err := read(&m.Uid); err != nil {
		return m, err
	}
	if err := read(&m.Gid); err != nil {
		return m, err
	}
	if err := read(&m.AccessTime); err != nil {
		return m, err
	}
	if err := read(&m.ModTime); err != nil {
		return m, err
	}
	if err := read(&m.Size); err != nil {
		return m, err
	}

	var linkLen uint16
	if err := read(&linkLen); err != nil {
		return m, err
	}
	linkBuf := make([]byte, linkLen)
	if _, err := io.ReadFull(r, linkBuf); err != nil {
		return m, carerr.Wrap(carerr.MalformedArchive, "read metadata link target", err)
	}
	m.LinkTarget = string(linkBuf)

	var hardRef uint8
	if err := read(&hardRef); err != nil {
		return m, err
	}
	m.IsHardlinkRef = hardRef != 0

	if m.IsHardlinkRef && m.Size != 0 {
		return m, carerr.New(carerr.MalformedArchive, "hardlink ref entry carries nonzero size")
	}

	return m, nil
}

// IsPopSentinel reports whether m is the "pop one level" sentinel: a DIR
// record with an empty name.
func (m FileMetadata) IsPopSentinel() bool {
	return m.Type == fsadapter.DIR && m.Name == ""
}

// PopSentinel builds the sentinel record that closes a directory level.
func PopSentinel() FileMetadata {
	return FileMetadata{Type: fsadapter.DIR, Name: ""}
}
