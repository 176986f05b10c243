// Package bitset implements a fixed-size, word-packed bitset used by the
// voxel tree's per-node child/value/redraw masks.
//
// The layout and bit tricks are adapted from [gaissmai/bart]'s BitSet256,
// generalized from a fixed 256-bit set to an arbitrary word count since our
// nodes range from 512 bits (Leaf) to 32768 bits (Trunk).
//
// [gaissmai/bart]: https://github.com/gaissmai/bart
package bitset

import (
	"iter"
	"math/bits"
)

const wordSize = 64

// Set is a fixed-size bitset backed by a []uint64. The zero value is not
// usable; construct with New.
type Set struct {
	words []uint64
	size  int
}

// New returns a Set able to hold n bits, all initially false (or all true
// if active is set).
func New(n int, active bool) Set {
	nw := (n + wordSize - 1) / wordSize
	words := make([]uint64, nw)
	if active {
		for i := range words {
			words[i] = ^uint64(0)
		}
		clearTrailingBits(words, n)
	}
	return Set{words: words, size: n}
}

// clearTrailingBits zeroes bits beyond n in the final word so popcount and
// iteration never see phantom set bits past the logical size.
func clearTrailingBits(words []uint64, n int) {
	if len(words) == 0 {
		return
	}
	rem := n % wordSize
	if rem == 0 {
		return
	}
	last := len(words) - 1
	words[last] &= (uint64(1) << uint(rem)) - 1
}

// Len returns the number of bits in the set.
func (s *Set) Len() int { return s.size }

// Test reports whether bit i is set.
func (s *Set) Test(i int) bool {
	return s.words[i/wordSize]&(uint64(1)<<uint(i%wordSize)) != 0
}

// Set sets or clears bit i.
func (s *Set) Set(i int, on bool) {
	if on {
		s.words[i/wordSize] |= uint64(1) << uint(i%wordSize)
	} else {
		s.words[i/wordSize] &^= uint64(1) << uint(i%wordSize)
	}
}

// SetAll sets every bit.
func (s *Set) SetAll() {
	for i := range s.words {
		s.words[i] = ^uint64(0)
	}
	clearTrailingBits(s.words, s.size)
}

// ClearAll clears every bit.
func (s *Set) ClearAll() {
	for i := range s.words {
		s.words[i] = 0
	}
}

// IsEmpty reports whether no bit is set.
func (s *Set) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// PopCount returns the number of set bits.
func (s *Set) PopCount() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// PopCountBefore returns the number of set bits at index < i (its rank).
// In popcount-compressed sparse-array storage this rank maps a bit index
// to a dense slot index without walking every slot.
func (s *Set) PopCountBefore(i int) int {
	wi := i / wordSize
	n := 0
	for j := 0; j < wi; j++ {
		n += bits.OnesCount64(s.words[j])
	}
	if wi < len(s.words) {
		rem := uint(i % wordSize)
		mask := (uint64(1) << rem) - 1
		if rem == 0 {
			mask = 0
		}
		n += bits.OnesCount64(s.words[wi] & mask)
	}
	return n
}

// FirstSet returns the lowest set bit and true, or (0, false) if empty.
func (s *Set) FirstSet() (int, bool) {
	for wi, w := range s.words {
		if w != 0 {
			return wi*wordSize + bits.TrailingZeros64(w), true
		}
	}
	return 0, false
}

// NextSet returns the lowest set bit >= start, or (0, false) if none.
// Mirrors bart's BitSet256.NextSet: check the partial first word, then scan
// whole words.
func (s *Set) NextSet(start int) (int, bool) {
	wi := start / wordSize
	if wi >= len(s.words) {
		return 0, false
	}

	first := s.words[wi] >> uint(start%wordSize)
	if first != 0 {
		return start + bits.TrailingZeros64(first), true
	}

	for j := wi + 1; j < len(s.words); j++ {
		if w := s.words[j]; w != 0 {
			return j*wordSize + bits.TrailingZeros64(w), true
		}
	}
	return 0, false
}

// All appends every set bit index to buf and returns the result, without
// intermediate allocation beyond what buf requires.
func (s *Set) All(buf []int) []int {
	for wi, w := range s.words {
		for w != 0 {
			buf = append(buf, wi*wordSize+bits.TrailingZeros64(w))
			w &= w - 1 // clear the lowest set bit
		}
	}
	return buf
}

// Seq returns a range-over-func iterator over set bit indices, for
// `for i := range set.Seq() { ... }` call sites.
func (s *Set) Seq() iter.Seq[int] {
	return func(yield func(int) bool) {
		for wi, w := range s.words {
			for w != 0 {
				i := wi*wordSize + bits.TrailingZeros64(w)
				if !yield(i) {
					return
				}
				w &= w - 1
			}
		}
	}
}
