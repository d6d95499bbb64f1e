// Package huffman implements two-pass Huffman compression and one-pass
// decompression over a byte stream, with an embedded frequency-table
// header.
package huffman

import (
	"container/heap"
	"math/big"

	"github.com/yuhaoze/car/pkg/carerr"
)

// MaxCodeLen is the hard cap on a single symbol's code length, held in a
// fixed-width bitfield. A Huffman tree over 256 symbols cannot produce a
// code longer than 255 bits, but the bound is enforced explicitly rather
// than silently truncated.
const MaxCodeLen = 256

const alphabetSize = 256

// node is a binary tree node: either a leaf labeled by a byte symbol, or
// an internal node merging two subtrees.
type node struct {
	freq        uint64
	symbol      byte
	isLeaf      bool
	left, right *node
	seq         int // tie-break: leaves seq=symbol, internal nodes seq>=alphabetSize in creation order
}

// pq is a min-priority-queue ordered by (freq, seq) — lower frequency
// wins; ties are broken by seq, which puts leaves in ascending symbol
// order ahead of any internal (merged) node, and orders internal nodes
// by creation order among themselves.
type pq []*node

func (q pq) Len() int            { return len(q) }
func (q pq) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pq) Push(x interface{}) { *q = append(*q, x.(*node)) }
func (q *pq) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
func (q pq) Less(i, j int) bool {
	if q[i].freq != q[j].freq {
		return q[i].freq < q[j].freq
	}
	return q[i].seq < q[j].seq
}

// buildTree constructs the Huffman tree for freq using the classic
// min-priority-queue construction. It returns an error if every
// frequency is zero (nothing to encode).
func buildTree(freq [alphabetSize]uint64) (*node, error) {
	q := make(pq, 0, alphabetSize)
	for sym := 0; sym < alphabetSize; sym++ {
		if freq[sym] == 0 {
			continue
		}
		q = append(q, &node{freq: freq[sym], symbol: byte(sym), isLeaf: true, seq: sym})
	}
	if len(q) == 0 {
		return nil, carerr.New(carerr.Unknown, "no symbols to encode")
	}

	heap.Init(&q)
	seq := alphabetSize
	for q.Len() > 1 {
		a := heap.Pop(&q).(*node)
		b := heap.Pop(&q).(*node)
		merged := &node{freq: a.freq + b.freq, left: a, right: b, seq: seq}
		seq++
		heap.Push(&q, merged)
	}

	return q[0], nil
}

// codeTable maps symbol to its assigned Code.
type codeTable map[byte]Code

// Code is a per-symbol (bit-length, bit-pattern) pair. Bits are stored
// MSB-first: the most significant meaningful bit is bit (Length-1) of
// Bits.
type Code struct {
	Length int
	Bits   *big.Int
}

// assignCodes walks tree, appending bit 0 on a left branch and bit 1 on
// a right branch. The single-leaf case (alphabet of one distinct
// symbol) synthesizes a length-1 code of bit 0, since the tree has no
// branches to walk.
func assignCodes(root *node) (codeTable, error) {
	codes := make(codeTable)

	if root.isLeaf {
		codes[root.symbol] = Code{Length: 1, Bits: big.NewInt(0)}
		return codes, nil
	}

	var walk func(n *node, length int, bits *big.Int) error
	walk = func(n *node, length int, bits *big.Int) error {
		if n.isLeaf {
			if length > MaxCodeLen {
				return carerr.New(carerr.Unknown, "huffman code length exceeds 256-bit bound")
			}
			if length == 0 {
				length = 1
			}
			codes[n.symbol] = Code{Length: length, Bits: new(big.Int).Set(bits)}
			return nil
		}
		left := new(big.Int).Lsh(bits, 1)
		if err := walk(n.left, length+1, left); err != nil {
			return err
		}
		right := new(big.Int).Lsh(bits, 1)
		right.SetBit(right, 0, 1)
		if err := walk(n.right, length+1, right); err != nil {
			return err
		}
		return nil
	}

	if err := walk(root, 0, new(big.Int)); err != nil {
		return nil, err
	}
	return codes, nil
}
