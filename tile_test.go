package tilewave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTilesNoVariants(t *testing.T) {
	source := [][]int{
		{1, 1, 2},
		{1, 1, 2},
		{2, 2, 2},
	}
	tiles := ExtractTiles(source, 3, false, false)
	assert.Len(t, tiles, 1)
	assert.Equal(t, Tile{{1, 1, 2}, {1, 1, 2}, {2, 2, 2}}, tiles[0])
}

func TestExtractTilesDeduplicates(t *testing.T) {
	source := [][]int{
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
	}
	tiles := ExtractTiles(source, 3, true, true)
	assert.Len(t, tiles, 1)
}

func TestExtractTilesRotationsAndReflections(t *testing.T) {
	source := [][]int{
		{1, 2, 1},
		{2, 2, 2},
		{1, 2, 2},
	}
	withRotations := ExtractTiles(source, 3, true, false)
	withBoth := ExtractTiles(source, 3, true, true)
	assert.LessOrEqual(t, len(withRotations), 4)
	assert.LessOrEqual(t, len(withBoth), 8)
	assert.GreaterOrEqual(t, len(withBoth), len(withRotations))
}

func TestRotateTile90FourTimesIsIdentity(t *testing.T) {
	base := Tile{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	cur := base
	for i := 0; i < 4; i++ {
		cur = rotateTile90(cur)
	}
	assert.Equal(t, base, cur)
}

func TestReflectTileInvolution(t *testing.T) {
	base := Tile{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	assert.Equal(t, base, reflectTile(reflectTile(base)))
}

func TestMembershipMaskIgnoresWildcard(t *testing.T) {
	tile := Tile{{0, 1, 0}, {2, 0, 2}, {0, 3, 0}}
	mask := membershipMask(tile)
	assert.Equal(t, ColorMask(0b111), mask)
}

func TestPatternMatchesWildcard(t *testing.T) {
	pattern := Tile{{0, 1, 0}, {0, 0, 0}, {0, 0, 0}}
	candidate := Tile{{9, 1, 9}, {9, 9, 9}, {9, 9, 9}}
	assert.True(t, patternMatches(pattern, candidate))

	mismatched := Tile{{9, 2, 9}, {9, 9, 9}, {9, 9, 9}}
	assert.False(t, patternMatches(pattern, mismatched))
}
