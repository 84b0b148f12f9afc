package tilewave

// DeadlockResult summarizes what ResolveSpatialDeadlock undid.
type DeadlockResult struct {
	Radius            int
	UnlockedPositions [][2]int32 // world coordinates
}

// ResolveSpatialDeadlock undoes placements around a contradiction detected
// at contradictionGrid (grid-space), growing the removal radius with each
// repeated contradiction at that cell, then recomputes entropy and
// feasibility over the (larger) affected region. It is the one place the
// algorithm backtracks, and only locally: it never reconsiders the whole
// grid.
func ResolveSpatialDeadlock(g *GridState, layer *FeasibilityCountLayer, tally []int, rd *RunData, contradictionGrid [2]int) DeadlockResult {
	cIdx := g.idx(contradictionGrid[0], contradictionGrid[1])
	if g.RemovalCount[cIdx] < 255 {
		g.RemovalCount[cIdx]++
	}
	removalCount := int(g.RemovalCount[cIdx])

	radius := minInt(int(rd.BaseRemovalRadius)+removalCount, int(rd.MaxRemovalRadius))
	contradictionWorld := g.GridToWorld(contradictionGrid[0], contradictionGrid[1])

	rowSpan, colSpan := GetRegionSpans(g.Offset, contradictionWorld, int32(radius))
	rowSpan = rowSpan.clamp(g.Rows)
	colSpan = colSpan.clamp(g.Cols)

	var unlocked [][2]int32
	for r := rowSpan.Start; r < rowSpan.End; r++ {
		for c := colSpan.Start; c < colSpan.End; c++ {
			i := g.idx(r, c)
			lockedVal := g.LockedTiles[i]
			if lockedVal <= 1 {
				continue
			}
			tileRef := int(lockedVal - 1)
			g.LockedTiles[i] = satSubUint32(lockedVal, uint32(tileRef))
			if tileRef >= 1 && tileRef-1 < len(tally) && tally[tileRef-1] > 0 {
				tally[tileRef-1]--
			}

			for level := 1; level <= rd.AdjacencyLevels; level++ {
				decrement := uint32(1 + rd.AdjacencyLevels - level)
				levelWorld := g.GridToWorld(r, c)
				lRowSpan, lColSpan := GetRegionSpans(g.Offset, levelWorld, int32(level))
				lRowSpan = lRowSpan.clamp(g.Rows)
				lColSpan = lColSpan.clamp(g.Cols)
				for lr := lRowSpan.Start; lr < lRowSpan.End; lr++ {
					for lc := lColSpan.Start; lc < lColSpan.End; lc++ {
						li := g.idx(lr, lc)
						g.AdjacencyWeights[li] = satSubUint32(g.AdjacencyWeights[li], decrement)
					}
				}
			}

			if tileRef >= 1 && tileRef <= rd.UniqueCellCount {
				unwindProbabilityInfluence(g, rd, tileRef, g.GridToWorld(r, c))
			}

			unlocked = append(unlocked, g.GridToWorld(r, c))
		}
	}

	entropyRadius := rd.GridExtensionRadius + int32(radius)
	eRowSpan, eColSpan := GetRegionSpans(g.Offset, contradictionWorld, entropyRadius)
	eRowSpan = eRowSpan.clamp(g.Rows)
	eColSpan = eColSpan.clamp(g.Cols)
	for r := eRowSpan.Start; r < eRowSpan.End; r++ {
		for c := eColSpan.Start; c < eColSpan.End; c++ {
			if g.IsLocked(r, c) {
				continue
			}
			recomputeEntropyAt(g, r, c)
		}
	}

	feasibilityRadius := rd.AdjacencyLevels + 1 + radius
	fRowSpan, fColSpan := GetRegionSpans(g.Offset, contradictionWorld, int32(feasibilityRadius))
	fRowSpan = fRowSpan.clamp(g.Rows)
	fColSpan = fColSpan.clamp(g.Cols)
	recomputeFeasibilitySquared(g, layer, rd, fRowSpan, fColSpan)

	return DeadlockResult{Radius: radius, UnlockedPositions: unlocked}
}

// unwindProbabilityInfluence divides back out the probability influence a
// now-removed placement of tileRef applied at worldPos, clamping the
// divisor away from zero so a degenerate influence tensor entry cannot
// produce +Inf/NaN.
func unwindProbabilityInfluence(g *GridState, rd *RunData, tileRef int, worldPos [2]int32) {
	R := rd.GridExtensionRadius
	centerRow, centerCol := g.WorldToGrid(worldPos)
	for di := -R; di <= R; di++ {
		for dj := -R; dj <= R; dj++ {
			r := centerRow + int(di)
			c := centerCol + int(dj)
			if !g.InBounds(r, c) {
				continue
			}
			idx := g.idx(r, c)
			for target := 1; target <= g.UniqueCellCount; target++ {
				impact := rd.Influence.At(tileRef, target, di, dj)
				impact = clampMagnitude(impact, minInfluenceMagnitude)
				g.TileProbabilities[target-1][idx] /= impact
			}
		}
	}
}

func clampMagnitude(x, minMag float64) float64 {
	if absf(x) >= minMag {
		return x
	}
	if x < 0 {
		return -minMag
	}
	return minMag
}

// recomputeFeasibilitySquared rebuilds the feasibility layer's dispatch
// counts across rowSpan x colSpan, then aggregates them into the grid's
// feasibility field using the MEAN-OF-SQUARES of the neighboring fractions.
// This intentionally diverges from UpdateFeasibilityCounts's linear mean
// and from its write-target offset: the upstream algorithm's deadlock path
// and normal path were never unified, and tilewave reproduces both exactly
// as observed rather than picking one.
func recomputeFeasibilitySquared(g *GridState, layer *FeasibilityCountLayer, rd *RunData, rowSpan, colSpan RegionSpan) {
	for sourceRow := rowSpan.Start; sourceRow < rowSpan.End; sourceRow++ {
		for sourceCol := colSpan.Start; sourceCol < colSpan.End; sourceCol++ {
			if sourceRow+2 >= g.Rows || sourceCol+2 >= g.Cols {
				continue
			}
			var tileGrid Tile
			for dr := 0; dr < 3; dr++ {
				for dc := 0; dc < 3; dc++ {
					lockedVal := g.LockedAt(sourceRow+dr, sourceCol+dc)
					if lockedVal > 0 {
						tileGrid[dr][dc] = int(lockedVal) - 1
					}
				}
			}
			layer.UpdateCount(sourceRow, sourceCol, tileGrid, rd.Compatibility)
		}
	}

	for targetRow := rowSpan.Start; targetRow < rowSpan.End; targetRow++ {
		for targetCol := colSpan.Start; targetCol < colSpan.End; targetCol++ {
			sum := 0.0
			count := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					srcRow := targetRow + dr - 1
					srcCol := targetCol + dc - 1
					fraction := layer.GetFraction(srcRow, srcCol)
					sum += fraction * fraction
					count++
				}
			}
			if count == 0 || !g.InBounds(targetRow, targetCol) {
				continue
			}
			g.Feasibility[g.idx(targetRow, targetCol)] = sum / float64(count)
		}
	}
}

func satSubUint32(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}
