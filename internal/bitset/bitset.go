package bitset

import "math/bits"

const wordBits = 64

// BitSet is a fixed-size dense bitset. The zero value is unusable; use New.
type BitSet struct {
	words []uint64
	size  uint64
}

// New creates a BitSet with size bits, all clear.
func New(size uint64) *BitSet {
	return &BitSet{
		words: make([]uint64, (size+wordBits-1)/wordBits),
		size:  size,
	}
}

// Size returns the number of bits.
func (b *BitSet) Size() uint64 { return b.size }

// Bytes returns the memory footprint of the bit storage in bytes.
func (b *BitSet) Bytes() int64 { return int64(len(b.words)) * 8 }

// Set sets the bit at index i. Out-of-range indexes are ignored.
func (b *BitSet) Set(i uint64) {
	if i >= b.size {
		return
	}
	b.words[i/wordBits] |= 1 << (i % wordBits)
}

// Test reports whether the bit at index i is set.
// Out-of-range indexes report false.
func (b *BitSet) Test(i uint64) bool {
	if i >= b.size {
		return false
	}
	return b.words[i/wordBits]&(1<<(i%wordBits)) != 0
}

// CountClear returns the number of clear bits.
func (b *BitSet) CountClear() uint64 {
	var set uint64
	for _, w := range b.words {
		set += uint64(bits.OnesCount64(w))
	}
	// The last word's padding bits are never set, so they would be
	// miscounted as clear; subtract them from the total width instead.
	return b.size - set
}

// ForEachClear calls fn for every clear bit index in ascending order.
// If fn returns false, iteration stops.
func (b *BitSet) ForEachClear(fn func(i uint64) bool) {
	for wi, w := range b.words {
		if w == ^uint64(0) {
			continue
		}
		base := uint64(wi) * wordBits
		// Invert so trailing-zero scanning walks the clear bits.
		inv := ^w
		for inv != 0 {
			i := base + uint64(bits.TrailingZeros64(inv))
			if i >= b.size {
				return
			}
			if !fn(i) {
				return
			}
			inv &= inv - 1
		}
	}
}
