package tilewave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopKValidIndicesRespectsK(t *testing.T) {
	values := map[cellPos]float64{
		{0, 0}: 1, {0, 1}: 5, {1, 0}: 3, {1, 1}: 9,
	}
	result := topKValidIndices(2, 2,
		func(r, c int) float64 { return values[cellPos{r, c}] },
		func(r, c int) bool { return true },
		2)

	assert.Len(t, result, 2)
	assert.Contains(t, result, cellPos{1, 1})
	assert.Contains(t, result, cellPos{0, 1})
}

func TestTopKValidIndicesSkipsInvalid(t *testing.T) {
	result := topKValidIndices(2, 2,
		func(r, c int) float64 { return float64(r + c) },
		func(r, c int) bool { return !(r == 1 && c == 1) },
		4)

	assert.NotContains(t, result, cellPos{1, 1})
	assert.Len(t, result, 3)
}

func TestTopKFromIndicesNarrowsCandidates(t *testing.T) {
	candidates := []cellPos{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	values := map[cellPos]float64{
		{0, 0}: 4, {0, 1}: 1, {1, 0}: 2, {1, 1}: 3,
	}
	result := topKFromIndices(candidates, func(r, c int) float64 { return values[cellPos{r, c}] }, 2)

	assert.Len(t, result, 2)
	assert.Contains(t, result, cellPos{0, 0})
	assert.Contains(t, result, cellPos{1, 1})
}

func TestComputePositionSelectionMarksLockedInvalid(t *testing.T) {
	g := NewGridState(2, 2, 2)
	g.LockedTiles[g.idx(0, 0)] = 2

	rd := &RunData{
		UniqueCellCount:            2,
		SourceRatios:               []float64{0.5, 0.5},
		DensityMinimumStrength:     0.05,
		DensityCorrectionSteepness: 1.0,
		DensityCorrectionThreshold: 4.0,
	}

	sel := ComputePositionSelection(g, []int{0, 0}, rd, nil)
	assert.False(t, sel.Valid[g.idx(0, 0)])
	assert.True(t, sel.Valid[g.idx(0, 1)])
}

func TestComputePositionSelectionZeroWeightWhenNotFeasible(t *testing.T) {
	g := NewGridState(1, 1, 2)
	g.Feasibility[0] = 0

	rd := &RunData{
		UniqueCellCount:            2,
		SourceRatios:               []float64{0.5, 0.5},
		DensityMinimumStrength:     0.05,
		DensityCorrectionSteepness: 1.0,
		DensityCorrectionThreshold: 4.0,
	}

	sel := ComputePositionSelection(g, []int{0, 0}, rd, nil)
	assert.Equal(t, 0.0, sel.Weight[0])
}

func TestComputePositionSelectionBoundsMaskInvalidatesOutside(t *testing.T) {
	g := NewGridState(3, 3, 2)
	g.Offset = [2]int32{1, 1}
	bounds := BoundingBox{Min: [2]int32{0, 0}, Max: [2]int32{0, 0}}

	rd := &RunData{
		UniqueCellCount:            2,
		SourceRatios:               []float64{0.5, 0.5},
		DensityMinimumStrength:     0.05,
		DensityCorrectionSteepness: 1.0,
		DensityCorrectionThreshold: 4.0,
	}

	sel := ComputePositionSelection(g, []int{0, 0}, rd, &bounds)
	centerRow, centerCol := g.WorldToGrid([2]int32{0, 0})
	assert.True(t, sel.Valid[g.idx(centerRow, centerCol)])
	assert.False(t, sel.Valid[g.idx(0, 0)])
}
