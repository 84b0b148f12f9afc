package tilewave

// RegionSpan is a half-open grid-index range [Start, End) along one axis.
type RegionSpan struct {
	Start, End int
}

// GetRegionSpans returns the row and column spans of the Chebyshev ball of
// the given radius around coordinates (world-space), converted to
// grid-space via offset. The spans are clamped to zero at the low end only;
// callers clamp the high end against the grid's current dimensions
// themselves, since different call sites clamp against different (and
// sometimes not-yet-extended) bounds.
func GetRegionSpans(offset [2]int32, coordinates [2]int32, radius int32) (rows, cols RegionSpan) {
	index := [2]int32{coordinates[0] + offset[0], coordinates[1] + offset[1]}
	rows = RegionSpan{
		Start: int(max32(0, index[0]-radius)),
		End:   int(max32(0, index[0]+radius+1)),
	}
	cols = RegionSpan{
		Start: int(max32(0, index[1]-radius)),
		End:   int(max32(0, index[1]+radius+1)),
	}
	return rows, cols
}

// clamp restricts s to at most maxEnd, never going below Start.
func (s RegionSpan) clamp(maxEnd int) RegionSpan {
	end := minInt(s.End, maxEnd)
	start := minInt(s.Start, end)
	return RegionSpan{Start: start, End: end}
}

// extensionInfo describes the padding needed to grow a grid so that a
// radius-sized ball around a world coordinate fits entirely within it.
type extensionInfo struct {
	padRowLo, padRowHi int
	padColLo, padColHi int
	newOffset          [2]int32
	needsExtension     bool
}

// calculateExtension mirrors the exemplar algorithm's grid-growth rule: grow
// only as much as necessary to cover coordinates +/- radius, preserving
// everything already placed.
func calculateExtension(rows, cols int, offset [2]int32, coordinates [2]int32, radius int32) extensionInfo {
	currentMinRow := -offset[0]
	currentMinCol := -offset[1]
	currentMaxRow := currentMinRow + int32(rows) - 1
	currentMaxCol := currentMinCol + int32(cols) - 1

	newMinRow := min32(currentMinRow, coordinates[0]-radius)
	newMinCol := min32(currentMinCol, coordinates[1]-radius)
	newMaxRow := max32(currentMaxRow, coordinates[0]+radius)
	newMaxCol := max32(currentMaxCol, coordinates[1]+radius)

	padRowLo := int(currentMinRow - newMinRow)
	padRowHi := int(newMaxRow - currentMaxRow)
	padColLo := int(currentMinCol - newMinCol)
	padColHi := int(newMaxCol - currentMaxCol)

	info := extensionInfo{
		padRowLo: padRowLo, padRowHi: padRowHi,
		padColLo: padColLo, padColHi: padColHi,
		newOffset:      offset,
		needsExtension: padRowLo+padRowHi+padColLo+padColHi > 0,
	}
	if info.needsExtension {
		info.newOffset = [2]int32{offset[0] + int32(padRowLo), offset[1] + int32(padColLo)}
	}
	return info
}

// constrainExtension reduces info's pad amounts so that the resulting grid
// never exceeds bounds (if set), trimming from whichever side would
// otherwise overshoot.
func constrainExtension(rows, cols int, offset [2]int32, info extensionInfo, bounds *BoundingBox) extensionInfo {
	if bounds == nil {
		return info
	}
	currentMinRow := -offset[0]
	currentMinCol := -offset[1]
	currentMaxRow := currentMinRow + int32(rows) - 1
	currentMaxCol := currentMinCol + int32(cols) - 1

	newMinRow := currentMinRow - int32(info.padRowLo)
	newMinCol := currentMinCol - int32(info.padColLo)
	newMaxRow := currentMaxRow + int32(info.padRowHi)
	newMaxCol := currentMaxCol + int32(info.padColHi)

	if newMinRow < bounds.Min[0] {
		info.padRowLo = satSubInt(info.padRowLo, int(bounds.Min[0]-newMinRow))
	}
	if newMinCol < bounds.Min[1] {
		info.padColLo = satSubInt(info.padColLo, int(bounds.Min[1]-newMinCol))
	}
	if newMaxRow > bounds.Max[0] {
		info.padRowHi = satSubInt(info.padRowHi, int(newMaxRow-bounds.Max[0]))
	}
	if newMaxCol > bounds.Max[1] {
		info.padColHi = satSubInt(info.padColHi, int(newMaxCol-bounds.Max[1]))
	}

	info.needsExtension = info.padRowLo+info.padRowHi+info.padColLo+info.padColHi > 0
	if info.needsExtension {
		info.newOffset = [2]int32{offset[0] + int32(info.padRowLo), offset[1] + int32(info.padColLo)}
	} else {
		info.newOffset = offset
	}
	return info
}

func satSubInt(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

// extendFloat2D returns a new (oldRows+padRowLo+padRowHi) x
// (oldCols+padColLo+padColHi) row-major slice with data copied into its
// original relative position and everywhere else set to padding.
func extendFloat2D(data []float64, oldRows, oldCols int, info extensionInfo, padding float64) []float64 {
	newRows := oldRows + info.padRowLo + info.padRowHi
	newCols := oldCols + info.padColLo + info.padColHi
	out := make([]float64, newRows*newCols)
	for i := range out {
		out[i] = padding
	}
	for r := 0; r < oldRows; r++ {
		for c := 0; c < oldCols; c++ {
			out[(r+info.padRowLo)*newCols+(c+info.padColLo)] = data[r*oldCols+c]
		}
	}
	return out
}

func extendUint32_2D(data []uint32, oldRows, oldCols int, info extensionInfo, padding uint32) []uint32 {
	newRows := oldRows + info.padRowLo + info.padRowHi
	newCols := oldCols + info.padColLo + info.padColHi
	out := make([]uint32, newRows*newCols)
	for i := range out {
		out[i] = padding
	}
	for r := 0; r < oldRows; r++ {
		for c := 0; c < oldCols; c++ {
			out[(r+info.padRowLo)*newCols+(c+info.padColLo)] = data[r*oldCols+c]
		}
	}
	return out
}

func extendUint8_2D(data []uint8, oldRows, oldCols int, info extensionInfo, padding uint8) []uint8 {
	newRows := oldRows + info.padRowLo + info.padRowHi
	newCols := oldCols + info.padColLo + info.padColHi
	out := make([]uint8, newRows*newCols)
	for i := range out {
		out[i] = padding
	}
	for r := 0; r < oldRows; r++ {
		for c := 0; c < oldCols; c++ {
			out[(r+info.padRowLo)*newCols+(c+info.padColLo)] = data[r*oldCols+c]
		}
	}
	return out
}

// ExtendIfNeeded grows g so that a ball of the given radius around world
// coordinates fits entirely within it, clamped to bounds (if non-nil); it
// returns an error if the result would exceed maxGridDimension. It is a
// no-op if the grid
// already covers that ball.
func (g *GridState) ExtendIfNeeded(coordinates [2]int32, radius int32, bounds *BoundingBox) error {
	info := calculateExtension(g.Rows, g.Cols, g.Offset, coordinates, radius)
	if !info.needsExtension {
		return nil
	}
	info = constrainExtension(g.Rows, g.Cols, g.Offset, info, bounds)
	if !info.needsExtension {
		return nil
	}

	newRows := g.Rows + info.padRowLo + info.padRowHi
	newCols := g.Cols + info.padColLo + info.padColHi
	if newRows > maxGridDimension || newCols > maxGridDimension {
		return computationError("GridState.ExtendIfNeeded", "grid would exceed maximum dimension %d (requested %dx%d)", maxGridDimension, newRows, newCols)
	}

	for i := range g.TileProbabilities {
		g.TileProbabilities[i] = extendFloat2D(g.TileProbabilities[i], g.Rows, g.Cols, info, 1.0)
	}
	g.Entropy = extendFloat2D(g.Entropy, g.Rows, g.Cols, info, 1.0)
	g.AdjacencyWeights = extendUint32_2D(g.AdjacencyWeights, g.Rows, g.Cols, info, 0)
	g.LockedTiles = extendUint32_2D(g.LockedTiles, g.Rows, g.Cols, info, 1)
	g.Feasibility = extendFloat2D(g.Feasibility, g.Rows, g.Cols, info, 1.0)
	// removal_count is padded with 0, deliberately diverging from the
	// upstream algorithm's generic Extendable::padding_value()==1 for u8:
	// a freshly extended cell has never absorbed a contradiction and
	// should start at zero removals, not one.
	g.RemovalCount = extendUint8_2D(g.RemovalCount, g.Rows, g.Cols, info, 0)

	g.Rows = newRows
	g.Cols = newCols
	g.Offset = info.newOffset
	return nil
}
