package huffman

import (
	"encoding/binary"
	"io"

	"github.com/yuhaoze/car/pkg/carerr"
)

// Compress reads r to completion, computes its per-byte frequency table,
// builds the Huffman tree deterministically, writes the header (file_len
// plus the 256-entry frequency table) and the encoded payload to w, and
// returns the total number of payload bits emitted.
func Compress(r io.Reader, w io.Writer) (uint64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, carerr.Wrap(carerr.IORead, "read huffman input", err)
	}

	var freq [alphabetSize]uint64
	for _, b := range data {
		freq[b]++
	}
	fileLen := uint64(len(data))

	if err := writeHeader(w, fileLen, freq); err != nil {
		return 0, err
	}

	if fileLen == 0 {
		return 0, nil
	}

	root, err := buildTree(freq)
	if err != nil {
		return 0, err
	}
	codes, err := assignCodes(root)
	if err != nil {
		return 0, err
	}

	bw := newBitWriter(w)
	for _, b := range data {
		c := codes[b]
		if err := bw.WriteBits(c.Bits, c.Length); err != nil {
			return 0, err
		}
	}
	if err := bw.Close(); err != nil {
		return 0, err
	}

	return bw.BitsWritten(), nil
}

// Decompress reads a header and encoded payload from r (as written by
// Compress) and writes the decoded plaintext to w. It stops after
// emitting exactly file_len bytes, ignoring any trailing padding bits.
func Decompress(r io.Reader, w io.Writer) (uint64, error) {
	fileLen, freq, err := readHeader(r)
	if err != nil {
		return 0, err
	}
	if fileLen == 0 {
		return 0, nil
	}

	root, err := buildTree(freq)
	if err != nil {
		return 0, carerr.Wrap(carerr.MalformedArchive, "rebuild huffman tree", err)
	}

	br := newBitReader(r)

	if root.isLeaf {
		for i := uint64(0); i < fileLen; i++ {
			if _, err := br.ReadBit(); err != nil {
				return 0, carerr.Wrap(carerr.MalformedArchive, "read huffman bit", err)
			}
			if _, err := w.Write([]byte{root.symbol}); err != nil {
				return 0, carerr.Wrap(carerr.IOWrite, "write decoded byte", err)
			}
		}
		return fileLen, nil
	}

	var emitted uint64
	for emitted < fileLen {
		n := root
		for !n.isLeaf {
			bit, err := br.ReadBit()
			if err != nil {
				return emitted, carerr.Wrap(carerr.MalformedArchive, "truncated huffman payload", err)
			}
			if bit == 0 {
				n = n.left
			} else {
				n = n.right
			}
		}
		if _, err := w.Write([]byte{n.symbol}); err != nil {
			return emitted, carerr.Wrap(carerr.IOWrite, "write decoded byte", err)
		}
		emitted++
	}

	return emitted, nil
}

func writeHeader(w io.Writer, fileLen uint64, freq [alphabetSize]uint64) error {
	if err := binary.Write(w, binary.LittleEndian, fileLen); err != nil {
		return carerr.Wrap(carerr.IOWrite, "write huffman file_len", err)
	}
	if err := binary.Write(w, binary.LittleEndian, freq); err != nil {
		return carerr.Wrap(carerr.IOWrite, "write huffman frequency table", err)
	}
	return nil
}

func readHeader(r io.Reader) (uint64, [alphabetSize]uint64, error) {
	var fileLen uint64
	var freq [alphabetSize]uint64

	if err := binary.Read(r, binary.LittleEndian, &fileLen); err != nil {
		return 0, freq, carerr.Wrap(carerr.MalformedArchive, "read huffman file_len", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &freq); err != nil {
		return 0, freq, carerr.Wrap(carerr.MalformedArchive, "read huffman frequency table", err)
	}

	var sum uint64
	for _, f := range freq {
		sum += f
	}
	if sum != fileLen {
		return 0, freq, carerr.New(carerr.MalformedArchive, "huffman frequency table does not sum to file_len")
	}

	return fileLen, freq, nil
}
