// Package collections provides the small generic data structures the
// engine shares: a dense bitset and a slice-backed stack.
package collections

import "math/bits"

// Bitset is a dense boolean set over non-negative integer ids, one bit
// per element. The join drivers use it to deduplicate candidate ids
// without a map allocation per probe.
type Bitset struct {
	words []uint64
	size  int
}

// NewBitset creates a bitset sized for ids in [0, size).
func NewBitset(size int) *Bitset {
	if size <= 0 {
		size = 64
	}
	return &Bitset{
		words: make([]uint64, (size+63)/64),
		size:  size,
	}
}

// Set sets the bit at index i, growing the backing array if needed.
func (b *Bitset) Set(i int) {
	if i < 0 {
		return
	}
	if i/64 >= len(b.words) {
		b.grow(i + 1)
	}
	b.words[i/64] |= 1 << (i % 64)
	if i >= b.size {
		b.size = i + 1
	}
}

// Clear clears the bit at index i.
func (b *Bitset) Clear(i int) {
	if i < 0 || i/64 >= len(b.words) {
		return
	}
	b.words[i/64] &^= 1 << (i % 64)
}

// Test reports whether the bit at index i is set.
func (b *Bitset) Test(i int) bool {
	if i < 0 || i/64 >= len(b.words) {
		return false
	}
	return b.words[i/64]&(1<<(i%64)) != 0
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	count := 0
	for _, w := range b.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Size returns the logical size of the bitset.
func (b *Bitset) Size() int { return b.size }

// ClearAll zeroes every bit, keeping the allocation.
func (b *Bitset) ClearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

func (b *Bitset) grow(newSize int) {
	need := (newSize + 63) / 64
	if need <= len(b.words) {
		return
	}
	newCap := len(b.words) * 2
	if newCap < need {
		newCap = need
	}
	words := make([]uint64, newCap)
	copy(words, b.words)
	b.words = words
}
