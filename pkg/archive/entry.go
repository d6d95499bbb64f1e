package archive

import (
	"github.com/yuhaoze/car/pkg/fsadapter"
	"github.com/yuhaoze/car/pkg/metadata"
)

// EntryDescriptor is the read-only view of an archive entry returned by
// List, without materializing any file.
type EntryDescriptor struct {
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

func descriptorFromMetadata(m metadata.FileMetadata) EntryDescriptor {
	return EntryDescriptor{
		Name:          m.Name,
		Type:          m.Type,
		Permissions:   m.Permissions,
		Uid:           m.Uid,
		Gid:           m.Gid,
		AccessTime:    m.AccessTime,
		ModTime:       m.ModTime,
		Size:          m.Size,
		LinkTarget:    m.LinkTarget,
		IsHardlinkRef: m.IsHardlinkRef,
	}
}

// childArchPath computes the archive-relative path of a child entry
// named name under a directory whose own archive-relative path is
// parent. A parent of "" denotes the implicit root, so a top-level
// source's archive-relative path is simply its own name.
func childArchPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
