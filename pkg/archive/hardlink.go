package archive

// devIno keys the HardlinkTable: (device-id, inode-number).
type devIno struct {
	dev, ino uint64
}

// HardlinkTable maps a (dev,ino) pair to the archive-relative path of
// the first entry that wrote that inode's content. It is owned by a
// single active pack operation; there is no cross-operation sharing.
type HardlinkTable struct {
	firstOccurrence map[devIno]string
}

// NewHardlinkTable returns an empty table.
func NewHardlinkTable() *HardlinkTable {
	return &HardlinkTable{firstOccurrence: make(map[devIno]string)}
}

// Lookup returns the archive-relative path of the first entry sharing
// (dev,ino), if any.
func (t *HardlinkTable) Lookup(dev, ino uint64) (string, bool) {
	p, ok := t.firstOccurrence[devIno{dev, ino}]
	return p, ok
}

// Record registers archPath as the first occurrence of (dev,ino).
func (t *HardlinkTable) Record(dev, ino uint64, archPath string) {
	t.firstOccurrence[devIno{dev, ino}] = archPath
}

// restoreMap is the unpack-side counterpart: archive-relative path to
// the path it was actually materialized at, so later hardlink
// back-references can call the filesystem link primitive.
type restoreMap struct {
	paths map[string]string
}

func newRestoreMap() *restoreMap {
	return &restoreMap{paths: make(map[string]string)}
}

func (m *restoreMap) record(archPath, destPath string) {
	m.paths[archPath] = destPath
}

func (m *restoreMap) lookup(archPath string) (string, bool) {
	p, ok := m.paths[archPath]
	return p, ok
}
