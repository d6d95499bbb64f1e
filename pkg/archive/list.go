package archive

import (
	"context"
	"io"

	"github.com/yuhaoze/car/pkg/carerr"
	"github.com/yuhaoze/car/pkg/fsadapter"
	"github.com/yuhaoze/car/pkg/metadata"
)

// listRaw reads metadata records only, reading past REG bodies and
// discarding them, and returns the records as a flat sequence.
func listRaw(ctx context.Context, in io.Reader) ([]EntryDescriptor, error) {
	var descriptors []EntryDescriptor
	depth := 0

	for {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}

		m, err := metadata.ReadFrom(in)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if m.IsPopSentinel() {
			depth--
			if depth < 0 {
				return nil, carerr.New(carerr.MalformedArchive, "directory stack underflow (over-pop)")
			}
			continue
		}

		descriptors = append(descriptors, descriptorFromMetadata(m))

		if m.Type == fsadapter.DIR {
			depth++
			continue
		}
		if m.Type == fsadapter.REG && !m.IsHardlinkRef && m.Size > 0 {
			if _, err := io.CopyN(io.Discard, in, int64(m.Size)); err != nil {
				return nil, carerr.Wrap(carerr.MalformedArchive, "seek over entry body", err)
			}
		}
	}

	if depth != 0 {
		return nil, carerr.New(carerr.MalformedArchive, "directory stack not balanced at end of archive")
	}
	return descriptors, nil
}
