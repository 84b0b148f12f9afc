package tilewave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uniformSourceTiles() []Tile {
	tiles := make([]Tile, 0)
	for color := 1; color <= 2; color++ {
		var t Tile
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				t[r][c] = color
			}
		}
		tiles = append(tiles, t)
	}
	return tiles
}

func TestComputeViableTilesAtPositionEmptyGridAllowsEverything(t *testing.T) {
	g := NewGridState(5, 5, 2)
	tiles := uniformSourceTiles()
	compat := BuildCompatibilityIndex(tiles, 2)
	cache := NewViableTilesCache()

	viable := ComputeViableTilesAtPosition(g, compat, cache, 2, 2)
	assert.Equal(t, fullColorMask(2), viable)
}

func TestComputeViableTilesAtPositionNarrowsAfterLock(t *testing.T) {
	g := NewGridState(5, 5, 2)
	tiles := uniformSourceTiles()
	compat := BuildCompatibilityIndex(tiles, 2)
	cache := NewViableTilesCache()

	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			g.LockedTiles[g.idx(2+dr, 2+dc)] = 2 // color 1
		}
	}

	viable := ComputeViableTilesAtPosition(g, compat, cache, 2, 2)
	assert.Equal(t, ColorMask(0b01), viable)
}

func TestFindCompatibleValuesAtOffsetUsesTargetCell(t *testing.T) {
	tiles := []Tile{
		{{1, 1, 1}, {1, 2, 1}, {1, 1, 1}},
	}
	compat := BuildCompatibilityIndex(tiles, 2)
	pattern := Tile{{1, 1, 1}, {1, 0, 1}, {1, 1, 1}}

	result := findCompatibleValuesAtOffset(pattern, 1, 1, compat)
	assert.Equal(t, ColorMask(0b10), result)
}

func TestDensityCorrectedColorLogWeightsRecentersByMean(t *testing.T) {
	colors := []int{1, 2}
	probabilities := []float64{0.5, 0.5}
	correction := []float64{0, 0}

	weights := densityCorrectedColorLogWeights(colors, probabilities, correction)
	sum := weights[0] + weights[1]
	assert.InDelta(t, 0.0, sum, 1e-9)
}

func TestDensityCorrectionZeroAtBalance(t *testing.T) {
	rd := &RunData{
		DensityMinimumStrength:     0.05,
		DensityCorrectionSteepness: 1.0,
		DensityCorrectionThreshold: 4.0,
		DensityImprovementTarget:   0.05,
	}
	tally := []int{5, 5}
	ratios := []float64{0.5, 0.5}
	probs := []float64{0.5, 0.5}

	corr := densityCorrection(tally, ratios, 10, probs, rd)
	assert.Len(t, corr, 2)
	assert.InDelta(t, 0.0, corr[0], 1e-12)
	assert.InDelta(t, 0.0, corr[1], 1e-12)
}
