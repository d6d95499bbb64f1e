package huffman

import (
	"bytes"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, data []byte) {
	t.Helper()

	var compressed bytes.Buffer
	bits, err := Compress(bytes.NewReader(data), &compressed)
	require.NoError(t, err)
	if len(data) > 0 {
		require.Greater(t, bits, uint64(0))
	}

	// Start from a non-nil empty buffer so an empty plaintext compares
	// equal to []byte{} rather than to nil.
	decoded := bytes.NewBuffer([]byte{})
	n, err := Decompress(bytes.NewReader(compressed.Bytes()), decoded)
	require.NoError(t, err)
	require.Equal(t, uint64(len(data)), n)
	require.Equal(t, data, decoded.Bytes())
}

func TestRoundTripEmpty(t *testing.T) {
	roundTrip(t, []byte{})
}

func TestRoundTripSingleByte(t *testing.T) {
	roundTrip(t, []byte{'x'})
}

func TestRoundTripUniform(t *testing.T) {
	roundTrip(t, bytes.Repeat([]byte{'a'}, 4))
	roundTrip(t, bytes.Repeat([]byte{'a'}, 4096))
}

func TestRoundTripRandom(t *testing.T) {
	data := make([]byte, 1<<16)
	rand.New(rand.NewSource(42)).Read(data)
	roundTrip(t, data)
}

// TestKnownEncoding checks the emitted bit count for a small fixed input
// against the codes this package's deterministic tie-break actually
// assigns, computed independently via buildTree/assignCodes rather than
// hardcoded.
func TestKnownEncoding(t *testing.T) {
	data := []byte("abcdabcd\n")

	var freq [alphabetSize]uint64
	for _, b := range data {
		freq[b]++
	}
	root, err := buildTree(freq)
	require.NoError(t, err)
	codes, err := assignCodes(root)
	require.NoError(t, err)

	var wantBits uint64
	for _, b := range data {
		wantBits += uint64(codes[b].Length)
	}

	var compressed bytes.Buffer
	bits, err := Compress(bytes.NewReader(data), &compressed)
	require.NoError(t, err)
	require.Equal(t, wantBits, bits)

	var decoded bytes.Buffer
	n, err := Decompress(bytes.NewReader(compressed.Bytes()), &decoded)
	require.NoError(t, err)
	require.Equal(t, uint64(len(data)), n)
	require.Equal(t, data, decoded.Bytes())
}

func TestSingleSymbolDegenerateTree(t *testing.T) {
	data := []byte("aaaa")

	var compressed bytes.Buffer
	bits, err := Compress(bytes.NewReader(data), &compressed)
	require.NoError(t, err)
	require.Equal(t, uint64(4), bits)

	var decoded bytes.Buffer
	n, err := Decompress(bytes.NewReader(compressed.Bytes()), &decoded)
	require.NoError(t, err)
	require.Equal(t, uint64(4), n)
	require.Equal(t, data, decoded.Bytes())
}

func TestPrefixFreeCodes(t *testing.T) {
	var freq [alphabetSize]uint64
	freq['a'] = 3
	freq['b'] = 1
	freq['c'] = 2
	freq['d'] = 1

	root, err := buildTree(freq)
	require.NoError(t, err)
	codes, err := assignCodes(root)
	require.NoError(t, err)

	for sym1, c1 := range codes {
		for sym2, c2 := range codes {
			if sym1 == sym2 {
				continue
			}
			require.False(t, isPrefix(c1, c2), "code for %q is a prefix of code for %q", sym1, sym2)
		}
	}
}

func isPrefix(a, b Code) bool {
	if a.Length >= b.Length {
		return false
	}
	shifted := new(big.Int).Rsh(b.Bits, uint(b.Length-a.Length))
	return shifted.Cmp(a.Bits) == 0
}
