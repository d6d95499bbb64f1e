package fsadapter

import "fmt"

// FormatMode renders mode and type in the familiar ls -l ten-character
// form: a type glyph followed by rwxrwxrwx permission bits.
func FormatMode(mode uint16, t FileType) string {
	var b [10]byte

	switch t {
	case REG:
		b[0] = '-'
	case DIR:
		b[0] = 'd'
	case FIFO:
		b[0] = 'p'
	case FLNK:
		b[0] = 'l'
	default:
		b[0] = '?'
	}

	bits := [9]struct {
		mask uint16
		ch   byte
	}{
		{0o400, 'r'}, {0o200, 'w'}, {0o100, 'x'},
		{0o040, 'r'}, {0o020, 'w'}, {0o010, 'x'},
		{0o004, 'r'}, {0o002, 'w'}, {0o001, 'x'},
	}
	for i, bit := range bits {
		if mode&bit.mask != 0 {
			b[i+1] = bit.ch
		} else {
			b[i+1] = '-'
		}
	}

	return string(b[:])
}

const (
	sizeKB = 1024
	sizeMB = 1024 * sizeKB
	sizeGB = 1024 * sizeMB
)

// FormatSize renders size as a human-readable byte count, stepping
// through B/KB/MB/GB and printing two decimal places above B.
func FormatSize(size uint64) string {
	switch {
	case size < sizeKB:
		return fmt.Sprintf("%dB", size)
	case size < sizeMB:
		return fmt.Sprintf("%.2fKB", float64(size)/sizeKB)
	case size < sizeGB:
		return fmt.Sprintf("%.2fMB", float64(size)/sizeMB)
	default:
		return fmt.Sprintf("%.2fGB", float64(size)/sizeGB)
	}
}
