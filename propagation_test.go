package tilewave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatInfluenceTensor(u int, radius int32, value float64) *InfluenceTensor {
	inf := NewInfluenceTensor(u, radius)
	side := int(2*radius + 1)
	for s := 1; s <= u; s++ {
		for c := 1; c <= u; c++ {
			for i := 0; i < side; i++ {
				for j := 0; j < side; j++ {
					inf.Set(s, c, int32(i)-radius, int32(j)-radius, value)
				}
			}
		}
	}
	return inf
}

func TestApplyInfluenceAndEntropyScalesProbabilities(t *testing.T) {
	g := NewGridState(5, 5, 2)
	rd := &RunData{UniqueCellCount: 2, GridExtensionRadius: 1, Influence: flatInfluenceTensor(2, 1, 2.0)}

	ApplyInfluenceAndEntropy(g, rd, 1, [2]int32{0, 0})

	row, col := g.WorldToGrid([2]int32{0, 0})
	center := g.idx(row, col)
	assert.Equal(t, 2.0, g.TileProbabilities[0][center])
	assert.Equal(t, 2.0, g.TileProbabilities[1][center])
}

func TestRecomputeEntropyZeroWhenUniform(t *testing.T) {
	g := NewGridState(1, 1, 3)
	recomputeEntropyAt(g, 0, 0)
	assert.InDelta(t, 0.0, g.Entropy[0], 1e-9)
}

func TestRecomputeEntropyPositiveWhenSkewed(t *testing.T) {
	g := NewGridState(1, 1, 2)
	g.TileProbabilities[0][0] = 10.0
	g.TileProbabilities[1][0] = 0.01
	recomputeEntropyAt(g, 0, 0)
	assert.Greater(t, g.Entropy[0], 0.0)
}

func TestLockAndPropagateAdjacencyLocksCenter(t *testing.T) {
	g := NewGridState(5, 5, 2)
	LockAndPropagateAdjacency(g, 2, [2]int32{0, 0}, 2)

	row, col := g.WorldToGrid([2]int32{0, 0})
	assert.Equal(t, uint32(3), g.LockedTiles[g.idx(row, col)])
	assert.Greater(t, g.AdjacencyWeights[g.idx(row, col)], uint32(0))
}

func TestLockAndPropagateAdjacencyDecaysWithDistance(t *testing.T) {
	g := NewGridState(7, 7, 2)
	LockAndPropagateAdjacency(g, 1, [2]int32{0, 0}, 2)

	row, col := g.WorldToGrid([2]int32{0, 0})
	center := g.AdjacencyWeights[g.idx(row, col)]
	near := g.AdjacencyWeights[g.idx(row+1, col)]
	far := g.AdjacencyWeights[g.idx(row+2, col)]

	assert.GreaterOrEqual(t, center, near)
	assert.GreaterOrEqual(t, near, far)
}

func TestForcedPipelineDedupesByCoordinate(t *testing.T) {
	f := NewForcedPipeline()
	f.Add([]ForcedPosition{{World: [2]int32{0, 0}, Color: 1}})
	f.Add([]ForcedPosition{{World: [2]int32{0, 0}, Color: 2}})

	assert.False(t, f.IsEmpty())
	p, ok := f.Next()
	assert.True(t, ok)
	assert.Equal(t, 1, p.Color)
	_, ok = f.Next()
	assert.False(t, ok)
}

func TestCheckForContradictionFindsDeadEnd(t *testing.T) {
	g := NewGridState(5, 5, 2)
	tiles := uniformSourceTiles() // one all-color-1 tile, one all-color-2 tile
	compat := BuildCompatibilityIndex(tiles, 2)
	cache := NewViableTilesCache()

	target := cellPos{2, 2}
	g.AdjacencyWeights[g.idx(target.Row, target.Col)] = 5
	g.LockedTiles[g.idx(1, 1)] = 2 // color 1, top-left neighbor
	g.LockedTiles[g.idx(3, 3)] = 3 // color 2, bottom-right neighbor

	row, col, found := CheckForContradiction(g, compat, cache)
	assert.True(t, found)
	assert.Equal(t, target.Row, row)
	assert.Equal(t, target.Col, col)
}
