package tilewave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileBitsetInsertContains(t *testing.T) {
	b := NewTileBitset(10)
	b.Insert(1)
	b.Insert(5)
	b.Insert(10)

	assert.True(t, b.Contains(1))
	assert.True(t, b.Contains(5))
	assert.True(t, b.Contains(10))
	assert.False(t, b.Contains(2))
	assert.False(t, b.Contains(0))
	assert.False(t, b.Contains(11))
	assert.Equal(t, 3, b.Count())
	assert.False(t, b.IsEmpty())
}

func TestTileBitsetEmpty(t *testing.T) {
	b := NewTileBitset(5)
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, []int{}, b.ToSlice())
}

func TestTileBitsetToSliceAscending(t *testing.T) {
	b := NewTileBitset(8)
	b.Insert(7)
	b.Insert(2)
	b.Insert(4)
	assert.Equal(t, []int{2, 4, 7}, b.ToSlice())
}

func TestTileBitsetCloneIndependent(t *testing.T) {
	b := NewTileBitset(8)
	b.Insert(3)
	c := b.Clone()
	c.Insert(5)

	assert.True(t, b.Contains(3))
	assert.False(t, b.Contains(5))
	assert.True(t, c.Contains(3))
	assert.True(t, c.Contains(5))
}
