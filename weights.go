package tilewave

import "container/heap"

// cellPos identifies a grid cell for position-selection purposes.
type cellPos struct {
	Row, Col int
}

// indexValue pairs a cell with its score, ordered by Value so it can sit in
// a bounded min-heap (container/heap.Interface, smallest on top) used to
// extract the top-k scoring cells in O(n log k).
type indexValue struct {
	Pos   cellPos
	Value float64
}

type valueHeap []indexValue

func (h valueHeap) Len() int { return len(h) }
func (h valueHeap) Less(i, j int) bool {
	// NaN never compares less than anything; treat it as tied with
	// everything so a NaN score never silently wins a top-k slot over a
	// valid comparable score.
	if h[i].Value != h[i].Value || h[j].Value != h[j].Value {
		return false
	}
	return h[i].Value < h[j].Value
}
func (h valueHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *valueHeap) Push(x any)        { *h = append(*h, x.(indexValue)) }
func (h *valueHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// boundedTopK maintains at most k entries, keeping the k highest scores
// seen across calls to consider.
type boundedTopK struct {
	h valueHeap
	k int
}

func newBoundedTopK(k int) *boundedTopK {
	return &boundedTopK{k: k}
}

func (b *boundedTopK) consider(pos cellPos, value float64) {
	if b.k <= 0 {
		return
	}
	if len(b.h) < b.k {
		heap.Push(&b.h, indexValue{Pos: pos, Value: value})
		return
	}
	if len(b.h) > 0 && value > b.h[0].Value {
		heap.Pop(&b.h)
		heap.Push(&b.h, indexValue{Pos: pos, Value: value})
	}
}

func (b *boundedTopK) positions() []cellPos {
	out := make([]cellPos, len(b.h))
	for i, iv := range b.h {
		out[i] = iv.Pos
	}
	return out
}

// topKValidIndices scans every cell of an rows x cols grid and returns (in
// no particular order) the up-to-k highest-scoring cells for which valid
// returns true.
func topKValidIndices(rows, cols int, value func(r, c int) float64, valid func(r, c int) bool, k int) []cellPos {
	topK := newBoundedTopK(k)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !valid(r, c) {
				continue
			}
			topK.consider(cellPos{r, c}, value(r, c))
		}
	}
	return topK.positions()
}

// topKFromIndices re-ranks a candidate set of cells by value and returns the
// up-to-k highest scoring among them.
func topKFromIndices(candidates []cellPos, value func(r, c int) float64, k int) []cellPos {
	topK := newBoundedTopK(k)
	for _, p := range candidates {
		topK.consider(p, value(p.Row, p.Col))
	}
	return topK.positions()
}

// PositionSelection holds the three per-cell scoring matrices used to pick
// the next placement position, each flattened row-major over the grid's
// current dimensions.
type PositionSelection struct {
	Adjacency []float64
	Weight    []float64
	Valid     []bool
}

// ComputePositionSelection scores every cell of g for candidacy as the next
// placement position: an adjacency score favoring cells deep inside
// already-placed structure, a density bias favoring colors under-placed
// relative to the exemplar's ratios, and a combined weight normalized by
// feasibility and entropy. Cells that are already locked, or that fall
// outside bounds (if set), are marked invalid.
func ComputePositionSelection(g *GridState, tally []int, rd *RunData, bounds *BoundingBox) PositionSelection {
	n := g.UniqueCellCount
	totalPlaced := 0
	for _, v := range tally {
		totalPlaced += v
	}

	deviations := make([]float64, n)
	for i := 0; i < n; i++ {
		cdf := binomialNormalApproximateCDF(totalPlaced, rd.SourceRatios[i], tally[i])
		deviations[i] = cdf - 0.5
	}

	maxDeviation := 0.0
	for i := 0; i < n; i++ {
		maxDeviation += rd.SourceRatios[i] * absf(deviations[i])
	}
	maxDeviation *= 200.0

	densityBiasStrength := maxf(rd.DensityMinimumStrength,
		sigmoid(rd.DensityCorrectionSteepness*(maxDeviation-rd.DensityCorrectionThreshold)))

	size := g.Rows * g.Cols
	sel := PositionSelection{
		Adjacency: make([]float64, size),
		Weight:    make([]float64, size),
		Valid:     make([]bool, size),
	}

	signExp := make([]float64, n)
	for i := 0; i < n; i++ {
		signExp[i] = signf(deviations[i]) * absExp(deviations[i])
	}

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			i := g.idx(r, c)
			sel.Valid[i] = !g.IsLocked(r, c)

			adj := float64(g.AdjacencyWeights[i])
			adj = maxf(0, adj-1)
			adjSq := adj * adj
			sel.Adjacency[i] = adjSq

			dot := 0.0
			for k := 0; k < n; k++ {
				dot += signExp[k] * g.TileProbabilities[k][i]
			}
			densityBias := densityBiasStrength*expClamped(dot) + 1.0

			feas := g.Feasibility[i]
			ent := g.Entropy[i]
			if feas > 0 && ent > 0 {
				sel.Weight[i] = adjSq * densityBias / (feas * ent)
			} else {
				sel.Weight[i] = 0
			}
		}
	}

	if bounds != nil {
		for r := 0; r < g.Rows; r++ {
			for c := 0; c < g.Cols; c++ {
				world := g.GridToWorld(r, c)
				if !bounds.Contains(world) {
					sel.Valid[g.idx(r, c)] = false
				}
			}
		}
	}

	return sel
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
