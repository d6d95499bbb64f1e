package huffman

import (
	"io"
	"math/big"

	"github.com/yuhaoze/car/pkg/carerr"
)

// bitWriter accumulates bits MSB-first into a byte buffer and flushes
// full bytes to the underlying writer. At Close, the trailing partial
// byte is padded with zero bits.
type bitWriter struct {
	w       io.Writer
	cur     byte
	nbits   int // bits currently held in cur, counted from the MSB side
	written uint64
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{w: w}
}

// WriteBits appends the low `length` bits of bits (MSB-first) to the
// stream.
func (bw *bitWriter) WriteBits(bits *big.Int, length int) error {
	for i := length - 1; i >= 0; i-- {
		bit := bits.Bit(i)
		bw.cur = bw.cur<<1 | byte(bit)
		bw.nbits++
		bw.written++
		if bw.nbits == 8 {
			if _, err := bw.w.Write([]byte{bw.cur}); err != nil {
				return carerr.Wrap(carerr.IOWrite, "write huffman payload byte", err)
			}
			bw.cur = 0
			bw.nbits = 0
		}
	}
	return nil
}

// BitsWritten returns the total number of bits appended so far,
// including bits not yet flushed to the underlying writer.
func (bw *bitWriter) BitsWritten() uint64 { return bw.written }

// Close flushes any partial trailing byte, padded with zero bits in the
// low-order positions.
func (bw *bitWriter) Close() error {
	if bw.nbits == 0 {
		return nil
	}
	bw.cur <<= uint(8 - bw.nbits)
	if _, err := bw.w.Write([]byte{bw.cur}); err != nil {
		return carerr.Wrap(carerr.IOWrite, "flush huffman payload byte", err)
	}
	bw.cur = 0
	bw.nbits = 0
	return nil
}

// bitReader reads bits MSB-first from an underlying byte stream.
type bitReader struct {
	r     io.Reader
	cur   byte
	nbits int // bits remaining in cur, counted from the MSB side
}

func newBitReader(r io.Reader) *bitReader {
	return &bitReader{r: r}
}

// ReadBit returns the next bit (0 or 1) from the stream.
func (br *bitReader) ReadBit() (byte, error) {
	if br.nbits == 0 {
		buf := make([]byte, 1)
		if _, err := io.ReadFull(br.r, buf); err != nil {
			return 0, err
		}
		br.cur = buf[0]
		br.nbits = 8
	}
	bit := (br.cur >> 7) & 1
	br.cur <<= 1
	br.nbits--
	return bit, nil
}
