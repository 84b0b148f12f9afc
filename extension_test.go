package tilewave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRegionSpansClampsLowEndOnly(t *testing.T) {
	rows, cols := GetRegionSpans([2]int32{0, 0}, [2]int32{0, 0}, 1)
	assert.Equal(t, RegionSpan{Start: 0, End: 2}, rows)
	assert.Equal(t, RegionSpan{Start: 0, End: 2}, cols)
}

func TestGetRegionSpansOffsetRespected(t *testing.T) {
	rows, cols := GetRegionSpans([2]int32{5, 5}, [2]int32{2, 2}, 1)
	assert.Equal(t, RegionSpan{Start: 6, End: 9}, rows)
	assert.Equal(t, RegionSpan{Start: 6, End: 9}, cols)
}

func TestCalculateExtensionNoOpWhenAlreadyCovered(t *testing.T) {
	info := calculateExtension(5, 5, [2]int32{2, 2}, [2]int32{0, 0}, 1)
	assert.False(t, info.needsExtension)
}

func TestCalculateExtensionGrowsOnLowEnd(t *testing.T) {
	info := calculateExtension(1, 1, [2]int32{0, 0}, [2]int32{0, 0}, 2)
	assert.True(t, info.needsExtension)
	assert.Equal(t, 2, info.padRowLo)
	assert.Equal(t, 2, info.padRowHi)
	assert.Equal(t, 2, info.padColLo)
	assert.Equal(t, 2, info.padColHi)
	assert.Equal(t, [2]int32{2, 2}, info.newOffset)
}

func TestConstrainExtensionClampsToBounds(t *testing.T) {
	info := calculateExtension(1, 1, [2]int32{0, 0}, [2]int32{0, 0}, 5)
	bounds := &BoundingBox{Min: [2]int32{-1, -1}, Max: [2]int32{1, 1}}
	constrained := constrainExtension(1, 1, [2]int32{0, 0}, info, bounds)

	assert.Equal(t, 1, constrained.padRowLo)
	assert.Equal(t, 1, constrained.padRowHi)
	assert.Equal(t, 1, constrained.padColLo)
	assert.Equal(t, 1, constrained.padColHi)
}

func TestGridStateExtendIfNeededPreservesData(t *testing.T) {
	g := NewGridState(1, 1, 1)
	g.TileProbabilities[0][0] = 0.25
	g.LockedTiles[0] = 2

	err := g.ExtendIfNeeded([2]int32{0, 0}, 2, nil)
	assert.NoError(t, err)
	assert.Equal(t, 5, g.Rows)
	assert.Equal(t, 5, g.Cols)

	row, col := g.WorldToGrid([2]int32{0, 0})
	assert.Equal(t, 0.25, g.TileProbabilities[0][g.idx(row, col)])
	assert.Equal(t, uint32(2), g.LockedTiles[g.idx(row, col)])
}

func TestGridStateExtendIfNeededPadsEntropyWithOne(t *testing.T) {
	g := NewGridState(1, 1, 1)

	err := g.ExtendIfNeeded([2]int32{0, 0}, 1, nil)
	assert.NoError(t, err)
	for _, v := range g.Entropy {
		assert.Equal(t, 1.0, v)
	}
}

func TestGridStateExtendIfNeededRejectsOversizedGrid(t *testing.T) {
	g := NewGridState(1, 1, 1)
	err := g.ExtendIfNeeded([2]int32{maxGridDimension * 2, 0}, 1, nil)
	assert.Error(t, err)
	var tErr *Error
	assert.ErrorAs(t, err, &tErr)
	assert.Equal(t, KindComputation, tErr.Kind)
}
