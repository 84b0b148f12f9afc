package tilewave

// BoundingBox is an inclusive world-coordinate rectangle, (row, col) order.
type BoundingBox struct {
	Min [2]int32
	Max [2]int32
}

// Contains reports whether pos falls within b, inclusive on both ends.
func (b BoundingBox) Contains(pos [2]int32) bool {
	return pos[0] >= b.Min[0] && pos[0] <= b.Max[0] &&
		pos[1] >= b.Min[1] && pos[1] <= b.Max[1]
}

// union returns the smallest BoundingBox containing both b and other.
func (b BoundingBox) union(other BoundingBox) BoundingBox {
	return BoundingBox{
		Min: [2]int32{min32(b.Min[0], other.Min[0]), min32(b.Min[1], other.Min[1])},
		Max: [2]int32{max32(b.Max[0], other.Max[0]), max32(b.Max[1], other.Max[1])},
	}
}

// GridState holds the six coupled fields the algorithm maintains over a
// dynamically growing grid, plus the world<->grid offset that lets world
// coordinates stay stable as the grid is padded in any direction.
//
// All fields are stored flat, row-major, length Rows*Cols (or, for
// TileProbabilities, UniqueCellCount slices of that length) — ndarray-style
// indexing without the dependency.
type GridState struct {
	Rows, Cols      int
	UniqueCellCount int
	Offset          [2]int32 // grid = world + Offset

	TileProbabilities [][]float64 // [color-1][row*Cols+col]
	Entropy           []float64
	AdjacencyWeights  []uint32
	LockedTiles       []uint32 // 0 = uninitialized, 1 = empty, n+1 = tile n
	Feasibility       []float64
	RemovalCount      []uint8
}

// NewGridState allocates a rows x cols grid, probabilities initialized to 1
// (uniform, pre-normalization is left to callers since the algorithm reads
// raw influence-scaled magnitudes rather than a normalized distribution),
// entropy and feasibility to their "fully open" values, locked cells to
// "empty", and removal counts to zero.
func NewGridState(rows, cols, uniqueCellCount int) *GridState {
	g := &GridState{
		Rows:              rows,
		Cols:              cols,
		UniqueCellCount:   uniqueCellCount,
		TileProbabilities: make([][]float64, uniqueCellCount),
		Entropy:           make([]float64, rows*cols),
		AdjacencyWeights:  make([]uint32, rows*cols),
		LockedTiles:       make([]uint32, rows*cols),
		Feasibility:       make([]float64, rows*cols),
		RemovalCount:      make([]uint8, rows*cols),
	}
	for c := range g.TileProbabilities {
		probs := make([]float64, rows*cols)
		for i := range probs {
			probs[i] = 1.0
		}
		g.TileProbabilities[c] = probs
	}
	for i := range g.LockedTiles {
		g.LockedTiles[i] = 1
	}
	for i := range g.Feasibility {
		g.Feasibility[i] = 1.0
	}
	for i := range g.Entropy {
		g.Entropy[i] = 1.0
	}
	return g
}

func (g *GridState) idx(row, col int) int { return row*g.Cols + col }

// InBounds reports whether (row, col) is a valid grid-space index.
func (g *GridState) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// WorldToGrid converts a world-space coordinate into grid-space row, col.
func (g *GridState) WorldToGrid(world [2]int32) (int, int) {
	return int(world[0] + g.Offset[0]), int(world[1] + g.Offset[1])
}

// GridToWorld converts a grid-space row, col back into world-space.
func (g *GridState) GridToWorld(row, col int) [2]int32 {
	return [2]int32{int32(row) - g.Offset[0], int32(col) - g.Offset[1]}
}

// LockedAt returns the tile reference stored at (row, col): 0 if
// uninitialized/out of bounds, 1 if empty, tileID+1 if locked to tileID.
func (g *GridState) LockedAt(row, col int) uint32 {
	if !g.InBounds(row, col) {
		return 0
	}
	return g.LockedTiles[g.idx(row, col)]
}

// IsLocked reports whether (row, col) already holds a placed tile.
func (g *GridState) IsLocked(row, col int) bool {
	return g.LockedAt(row, col) > 1
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
