package tilewave

import "math"

// viableWindowOrder is the fixed scan order compute_viable_tiles_at_position
// uses: the target cell itself first, then its four orthogonal neighbors,
// then its four diagonal neighbors. Each entry is a (row, col) offset within
// the 3x3 window centered on the placement position.
var viableWindowOrder = [9][2]int{
	{1, 1}, {0, 1}, {1, 0}, {1, 2}, {2, 1},
	{0, 0}, {0, 2}, {2, 0}, {2, 2},
}

// ComputeViableTilesAtPosition returns the set of colors that may legally
// occupy grid cell (row, col), by intersecting the locally-consistent color
// sets implied by each of the nine 3x3 windows that include it, consulting
// cache for any pattern already seen.
func ComputeViableTilesAtPosition(g *GridState, compat *CompatibilityIndex, cache *ViableTilesCache, row, col int) ColorMask {
	result := fullColorMask(g.UniqueCellCount)

	for _, off := range viableWindowOrder {
		centerRow := row + (off[0] - 1)
		centerCol := col + (off[1] - 1)

		rowSpan := RegionSpan{Start: centerRow - 1, End: centerRow + 2}
		colSpan := RegionSpan{Start: centerCol - 1, End: centerCol + 2}
		clippedRowSpan := RegionSpan{Start: maxInt(0, rowSpan.Start), End: minInt(g.Rows, rowSpan.End)}
		clippedColSpan := RegionSpan{Start: maxInt(0, colSpan.Start), End: minInt(g.Cols, colSpan.End)}
		if clippedRowSpan.End-clippedRowSpan.Start < 3 || clippedColSpan.End-clippedColSpan.Start < 3 {
			continue
		}

		var pattern Tile
		for dr := 0; dr < 3; dr++ {
			for dc := 0; dc < 3; dc++ {
				r := centerRow - 1 + dr
				c := centerCol - 1 + dc
				lockedVal := g.LockedAt(r, c)
				if lockedVal == 0 {
					lockedVal = 1
				}
				pattern[dr][dc] = int(lockedVal) - 1
			}
		}

		targetRow := 2 - off[0]
		targetCol := 2 - off[1]
		key := newPatternKey(pattern, targetRow, targetCol)
		viable := cache.GetOrCompute(key, func() ColorMask {
			return findCompatibleValuesAtOffset(pattern, targetRow, targetCol, compat)
		})

		result &= viable
		if result == 0 {
			return 0
		}
	}
	return result
}

// findCompatibleValuesAtOffset looks up which source tiles are consistent
// with pattern (a 3x3 window with wildcard cells <= 0), then collects the
// color found at (targetRow, targetCol) in each such tile.
func findCompatibleValuesAtOffset(pattern Tile, targetRow, targetCol int, compat *CompatibilityIndex) ColorMask {
	mask := membershipMask(pattern)
	candidates := compat.Candidates(mask)

	var result ColorMask
	for _, tileID := range candidates.ToSlice() {
		tile := compat.tileAt(tileID)
		if !patternMatches(pattern, tile) {
			continue
		}
		color := tile[targetRow][targetCol]
		if color > 0 {
			result |= 1 << uint(color-1)
		}
	}
	return result
}

// GetTileProbabilitiesAtPosition reads off the per-color probability vector
// at (row, col), length g.UniqueCellCount.
func GetTileProbabilitiesAtPosition(g *GridState, row, col int) []float64 {
	i := g.idx(row, col)
	out := make([]float64, g.UniqueCellCount)
	for k := range out {
		out[k] = g.TileProbabilities[k][i]
	}
	return out
}

// densityCorrection computes, for each color, how much to shift its
// log-probability this step to push the running tally back toward the
// exemplar's source ratios. Grounded on optimal_density_correction: it
// first estimates the current deviation and its local derivative via a
// normal approximation to the binomial tail, then scales toward a slightly
// smaller target deviation.
func densityCorrection(tally []int, sourceRatios []float64, totalPlaced int, probabilities []float64, rd *RunData) []float64 {
	n := len(sourceRatios)
	deviations := make([]float64, n)
	for k := 0; k < n; k++ {
		cdf := binomialNormalApproximateCDF(totalPlaced, sourceRatios[k], tally[k])
		deviations[k] = cdf - 0.5
	}

	deviation := 0.0
	for k := 0; k < n; k++ {
		deviation += sourceRatios[k] * absf(deviations[k])
	}

	correctionStrength := maxf(rd.DensityMinimumStrength,
		sigmoid(rd.DensityCorrectionSteepness*(200*deviation-rd.DensityCorrectionThreshold)))

	projected := calculateProjectedDeviation(tally, probabilities, sourceRatios, totalPlaced, deviations)
	derivative := calculateDeviationDerivative(tally, probabilities, sourceRatios, totalPlaced, deviations)

	targetDeviation := projected * (1 - rd.DensityImprovementTarget*correctionStrength)

	corr := make([]float64, n)
	if derivative == 0 {
		return corr
	}
	scale := (targetDeviation - projected) / derivative
	for k := 0; k < n; k++ {
		corr[k] = scale * (-deviations[k] * absf(deviations[k]))
	}
	return corr
}

func calculateProjectedDeviation(tally []int, probabilities, sourceRatios []float64, totalPlaced int, deviations []float64) float64 {
	sum := 0.0
	for k, ratio := range sourceRatios {
		if ratio <= 0 || ratio >= 1 {
			continue
		}
		denom := math.Sqrt2 * math.Sqrt((1-ratio)*ratio*(1+float64(totalPlaced)))
		if denom == 0 {
			continue
		}
		numerator := -float64(tally[k]) - probabilities[k] + ratio + ratio*float64(totalPlaced)
		arg := numerator / denom
		sum += -0.5 * erf(arg) * signf(deviations[k])
	}
	return sum
}

func calculateDeviationDerivative(tally []int, probabilities, sourceRatios []float64, totalPlaced int, deviations []float64) float64 {
	sum := 0.0
	for k, ratio := range sourceRatios {
		if ratio <= 0 || ratio >= 1 {
			continue
		}
		n1 := float64(totalPlaced)
		diff := float64(tally[k]) + probabilities[k] - ratio*(1+n1)
		numerator := diff * diff
		denominator := 2 * (1 - ratio) * ratio * (1 + n1)
		if denominator == 0 {
			continue
		}
		expTerm := math.Exp(-numerator / denominator)
		sqrtTerm := math.Sqrt(math.Pi * absf(denominator))
		if sqrtTerm == 0 {
			continue
		}
		derivativeK := expTerm * probabilities[k] * ratio / sqrtTerm
		sum += (-deviations[k] * absf(deviations[k])) * derivativeK * signf(deviations[k])
	}
	return sum
}

// densityCorrectedColorLogWeights combines each viable color's raw
// probability at a fixed grid cell with the density-correction term for
// that color, in log space, then recenters by the mean so the values that
// reach the sampler are well-scaled regardless of how small the raw
// probabilities are. Defined alongside ComputeViableTilesAtPosition since
// both operate on the same per-cell viable-color representation; used by
// Executor.selectRandomPosition in executor.go.
func densityCorrectedColorLogWeights(colors []int, probabilities, correction []float64) []float64 {
	logWeights := make([]float64, len(colors))
	sum := 0.0
	for i, color := range colors {
		logProb := math.Log(probabilities[color-1])
		l := logProb + correction[color-1]
		logWeights[i] = l
		sum += l
	}
	if len(logWeights) == 0 {
		return logWeights
	}
	mean := sum / float64(len(logWeights))
	for i := range logWeights {
		logWeights[i] -= mean
	}
	return logWeights
}
