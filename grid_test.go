package tilewave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGridStateInitialValues(t *testing.T) {
	g := NewGridState(3, 4, 2)

	assert.Equal(t, 3, g.Rows)
	assert.Equal(t, 4, g.Cols)
	for _, probs := range g.TileProbabilities {
		for _, p := range probs {
			assert.Equal(t, 1.0, p)
		}
	}
	for _, v := range g.LockedTiles {
		assert.Equal(t, uint32(1), v)
	}
	for _, v := range g.Feasibility {
		assert.Equal(t, 1.0, v)
	}
	for _, v := range g.Entropy {
		assert.Equal(t, 1.0, v)
	}
	for _, v := range g.RemovalCount {
		assert.Equal(t, uint8(0), v)
	}
}

func TestGridStateWorldGridRoundTrip(t *testing.T) {
	g := NewGridState(5, 5, 1)
	g.Offset = [2]int32{2, 2}

	row, col := g.WorldToGrid([2]int32{-1, 3})
	assert.Equal(t, 1, row)
	assert.Equal(t, 5, col)

	world := g.GridToWorld(row, col)
	assert.Equal(t, [2]int32{-1, 3}, world)
}

func TestGridStateLockedHelpers(t *testing.T) {
	g := NewGridState(2, 2, 1)
	assert.False(t, g.IsLocked(0, 0))
	g.LockedTiles[g.idx(0, 0)] = 3
	assert.True(t, g.IsLocked(0, 0))
	assert.Equal(t, uint32(0), g.LockedAt(10, 10))
}

func TestBoundingBoxContains(t *testing.T) {
	b := BoundingBox{Min: [2]int32{-2, -2}, Max: [2]int32{2, 2}}
	assert.True(t, b.Contains([2]int32{0, 0}))
	assert.True(t, b.Contains([2]int32{2, -2}))
	assert.False(t, b.Contains([2]int32{3, 0}))
}
