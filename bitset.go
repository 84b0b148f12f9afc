package tilewave

import "github.com/kelindar/bitmap"

// TileBitset is a set of 1-based tile IDs backed by a growable roaring-free
// bitmap. It is the candidate-set representation used by the compatibility
// index and by the feasibility count layer's dispatch lookups, where the
// number of tiles can run into the thousands and a dense uint64 mask is no
// longer appropriate (unlike ColorMask, which is bounded by the exemplar's
// much smaller color count).
type TileBitset struct {
	bits     bitmap.Bitmap
	maxTiles int
}

// NewTileBitset returns an empty set capable of holding tile IDs in
// [1, maxTiles].
func NewTileBitset(maxTiles int) TileBitset {
	var b bitmap.Bitmap
	if maxTiles > 0 {
		b.Grow(uint32(maxTiles - 1))
	}
	return TileBitset{bits: b, maxTiles: maxTiles}
}

// Insert adds tile (1-based) to the set. Out-of-range values are ignored.
func (t *TileBitset) Insert(tile int) {
	if tile <= 0 || tile > t.maxTiles {
		return
	}
	t.bits.Set(uint32(tile - 1))
}

// Contains reports whether tile (1-based) is a member.
func (t TileBitset) Contains(tile int) bool {
	if tile <= 0 || tile > t.maxTiles {
		return false
	}
	return t.bits.Contains(uint32(tile - 1))
}

// Count returns the number of members.
func (t TileBitset) Count() int {
	n := 0
	for i := 0; i < t.maxTiles; i++ {
		if t.bits.Contains(uint32(i)) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the set has no members.
func (t TileBitset) IsEmpty() bool {
	for i := 0; i < t.maxTiles; i++ {
		if t.bits.Contains(uint32(i)) {
			return false
		}
	}
	return true
}

// ToSlice returns the set's members as ascending 1-based tile IDs.
func (t TileBitset) ToSlice() []int {
	out := make([]int, 0, t.maxTiles)
	for i := 0; i < t.maxTiles; i++ {
		if t.bits.Contains(uint32(i)) {
			out = append(out, i+1)
		}
	}
	return out
}

// Clone returns an independent copy of t.
func (t TileBitset) Clone() TileBitset {
	cloned := append(bitmap.Bitmap(nil), t.bits...)
	return TileBitset{bits: cloned, maxTiles: t.maxTiles}
}
