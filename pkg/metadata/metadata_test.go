package metadata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuhaoze/car/pkg/fsadapter"
)

func TestWriteReadRoundTrip(t *testing.T) {
	m := FileMetadata{
		Name:        "readonly",
		Type:        fsadapter.REG,
		Permissions: 0o444,
		Uid:         1000,
		Gid:         1000,
		AccessTime:  1700000000,
		ModTime:     1700000001,
		Size:        8300,
	}

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestHardlinkRefRoundTrip(t *testing.T) {
	m := FileMetadata{
		Name:          "B",
		Type:          fsadapter.REG,
		IsHardlinkRef: true,
		LinkTarget:    "A",
	}

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadFrom(&buf)
	require.NoError(t, err)
	require.True(t, got.IsHardlinkRef)
	require.Equal(t, "A", got.LinkTarget)
	require.Equal(t, uint64(0), got.Size)
}

func TestHardlinkRefWithSizeIsMalformed(t *testing.T) {
	m := FileMetadata{
		Name:          "B",
		Type:          fsadapter.REG,
		IsHardlinkRef: true,
		LinkTarget:    "A",
		Size:          5,
	}

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadFrom(&buf)
	require.Error(t, err)
}

func TestPopSentinel(t *testing.T) {
	s := PopSentinel()
	require.True(t, s.IsPopSentinel())

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadFrom(&buf)
	require.NoError(t, err)
	require.True(t, got.IsPopSentinel())
}

func TestSymlinkRoundTrip(t *testing.T) {
	m := FileMetadata{
		Name:       "link",
		Type:       fsadapter.FLNK,
		LinkTarget: "../4k",
	}

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestTruncatedRecordIsMalformed(t *testing.T) {
	m := FileMetadata{Name: "toplevel", Type: fsadapter.REG, Size: 512}
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	truncated := buf.Bytes()[:buf.Len()-3]
	_, err = ReadFrom(bytes.NewReader(truncated))
	require.Error(t, err)
}
