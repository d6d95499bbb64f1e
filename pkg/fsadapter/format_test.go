package fsadapter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatMode(t *testing.T) {
	require.Equal(t, "-rw-r--r--", FormatMode(0o644, REG))
	require.Equal(t, "drwxr-xr-x", FormatMode(0o755, DIR))
	require.Equal(t, "lrwxrwxrwx", FormatMode(0o777, FLNK))
	require.Equal(t, "prw-------", FormatMode(0o600, FIFO))
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "0B", FormatSize(0))
	require.Equal(t, "512B", FormatSize(512))
	require.Equal(t, "1.00KB", FormatSize(1024))
	require.Equal(t, "1.50KB", FormatSize(1536))
	require.Equal(t, "1.00MB", FormatSize(1024*1024))
	require.Equal(t, "1.00GB", FormatSize(1024*1024*1024))
}
