package tilewave

import (
	"math"
	"math/rand"
	"sort"
)

// Executor drives one run of the generation algorithm: a single-threaded,
// non-suspending state machine advanced one placement at a time by
// RunIteration. It owns the mutable GridState plus the bookkeeping needed
// to detect and resolve contradictions.
type Executor struct {
	rd   *RunData
	grid *GridState

	tally       []int
	forced      *ForcedPipeline
	cache       *ViableTilesCache
	feasibility *FeasibilityCountLayer
	prefill     *PrefillData
	bounds      *BoundingBox

	rng *rand.Rand

	iteration            int
	initialPlacementDone bool
}

// NewExecutor constructs an Executor from a validated configuration and
// exemplar-derived statistics and sizes the grid around the origin. The
// initial weighted tile pick is made by the first RunIteration call.
func NewExecutor(cfg Config, rd *RunData) (*Executor, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rd.Influence == nil {
		return nil, invalidConfig("NewExecutor", "RunData.Influence must not be nil")
	}
	if rd.Influence.UniqueCellCount != rd.UniqueCellCount {
		return nil, invalidConfig("NewExecutor", "influence tensor color count %d does not match RunData.UniqueCellCount %d", rd.Influence.UniqueCellCount, rd.UniqueCellCount)
	}
	if rd.Influence.Radius != rd.GridExtensionRadius {
		return nil, invalidConfig("NewExecutor", "influence tensor radius %d does not match RunData.GridExtensionRadius %d", rd.Influence.Radius, rd.GridExtensionRadius)
	}
	if len(rd.SourceRatios) != rd.UniqueCellCount {
		return nil, invalidConfig("NewExecutor", "source ratios length %d does not match UniqueCellCount %d", len(rd.SourceRatios), rd.UniqueCellCount)
	}

	rd.AdjacencyLevels = cfg.AdjacencyLevels
	rd.AdjacencyCandidatesConsidered = cfg.AdjacencyCandidatesConsidered
	rd.CandidatesConsidered = cfg.CandidatesConsidered
	rd.BaseRemovalRadius = cfg.BaseRemovalRadius
	rd.MaxRemovalRadius = cfg.MaxRemovalRadius
	rd.DensityCorrectionThreshold = cfg.DensityCorrectionThreshold
	rd.DensityCorrectionSteepness = cfg.DensityCorrectionSteepness
	rd.DensityMinimumStrength = cfg.DensityMinimumStrength
	rd.DensityImprovementTarget = cfg.DensityImprovementTarget

	grid := NewGridState(1, 1, rd.UniqueCellCount)
	feasibility := NewFeasibilityCountLayer(1, 1, len(rd.SourceTiles))

	e := &Executor{
		rd:          rd,
		grid:        grid,
		tally:       make([]int, rd.UniqueCellCount),
		forced:      NewForcedPipeline(),
		cache:       NewViableTilesCache(),
		feasibility: feasibility,
		bounds:      cfg.GenerationBounds,
		rng:         rand.New(rand.NewSource(int64(cfg.Seed))),
	}

	if err := e.extendGridAndFeasibility([2]int32{0, 0}, rd.GridExtensionRadius); err != nil {
		return nil, err
	}

	return e, nil
}

// ApplyPrefill installs a fixed placement queue the executor drains before
// any stochastic position selection. It must be called, if at all, before
// the first call to RunIteration.
func (e *Executor) ApplyPrefill(p *PrefillData) error {
	if bounds, ok := p.Bounds(); ok {
		if err := e.extendGridAndFeasibility(bounds.Min, e.rd.GridExtensionRadius); err != nil {
			return err
		}
		if err := e.extendGridAndFeasibility(bounds.Max, e.rd.GridExtensionRadius); err != nil {
			return err
		}
		if e.bounds == nil {
			b := bounds
			e.bounds = &b
		} else {
			merged := e.bounds.union(bounds)
			e.bounds = &merged
		}
	}
	e.prefill = p
	return nil
}

// extendGridAndFeasibility grows the grid to cover coordinates +/- radius
// and keeps the feasibility layer's indexing aligned with whatever padding
// the grid applied, including on the low end of either axis.
func (e *Executor) extendGridAndFeasibility(coordinates [2]int32, radius int32) error {
	oldOffset := e.grid.Offset
	oldRows, oldCols := e.grid.Rows, e.grid.Cols
	if err := e.grid.ExtendIfNeeded(coordinates, radius, e.bounds); err != nil {
		return err
	}
	padRowLo := int(e.grid.Offset[0] - oldOffset[0])
	padColLo := int(e.grid.Offset[1] - oldOffset[1])
	if e.grid.Rows != oldRows || e.grid.Cols != oldCols || padRowLo != 0 || padColLo != 0 {
		e.feasibility.ExtendTo(e.grid.Rows, e.grid.Cols, padRowLo, padColLo)
	}
	return nil
}

// Grid exposes the executor's current grid state, read-only by convention
// (callers should not mutate the returned pointer's slices).
func (e *Executor) Grid() *GridState { return e.grid }

// Iteration returns the number of RunIteration calls completed so far.
func (e *Executor) Iteration() int { return e.iteration }

// RunIteration advances the generation by exactly one placement. It returns
// false, nil once the generation bounds are set and fully filled; it returns
// an error when no valid next placement exists anywhere or when the grid
// cannot grow to admit the placement.
func (e *Executor) RunIteration() (bool, error) {
	if e.checkCompletion() {
		return false, nil
	}
	e.iteration++

	world, color, err := e.getPlacementDecision()
	if err != nil {
		return false, err
	}

	if err := e.placeTile(world, color); err != nil {
		return false, err
	}
	e.postPlacementUpdates(world)
	return true, nil
}

func (e *Executor) checkCompletion() bool {
	if e.bounds == nil {
		return false
	}
	width := int(e.bounds.Max[0]-e.bounds.Min[0]) + 1
	height := int(e.bounds.Max[1]-e.bounds.Min[1]) + 1
	filled := 0
	for r := 0; r < e.grid.Rows; r++ {
		for c := 0; c < e.grid.Cols; c++ {
			world := e.grid.GridToWorld(r, c)
			if !e.bounds.Contains(world) {
				continue
			}
			if e.grid.IsLocked(r, c) {
				filled++
			}
		}
	}
	return filled >= width*height
}

func (e *Executor) getPlacementDecision() ([2]int32, int, error) {
	if !e.initialPlacementDone && e.prefill == nil {
		e.initialPlacementDone = true
		color := selectInitialTile(e.rd.SourceRatios, e.rng)
		return [2]int32{0, 0}, color, nil
	}
	e.initialPlacementDone = true

	if e.prefill != nil {
		for {
			pl, ok := e.prefill.NextPlacement()
			if !ok {
				break
			}
			row, col := e.grid.WorldToGrid(pl.World)
			if !e.grid.InBounds(row, col) || !e.grid.IsLocked(row, col) {
				return pl.World, pl.Color, nil
			}
		}
	}

	for {
		fp, ok := e.forced.Next()
		if !ok {
			break
		}
		row, col := e.grid.WorldToGrid(fp.World)
		if !e.grid.InBounds(row, col) {
			continue
		}
		if e.grid.IsLocked(row, col) {
			continue
		}
		return fp.World, fp.Color, nil
	}

	return e.selectRandomPosition()
}

// selectRandomPosition implements the weight-based fallback: narrow the
// grid to a bounded pool of adjacency-favored candidates, re-rank that pool
// by full weight, sample a position from it, then sample a color for that
// position. A position whose viable-color set is empty is a freshly
// discovered contradiction: it is resolved in place and selection retries,
// mirroring the reference implementation's direct recursion.
func (e *Executor) selectRandomPosition() ([2]int32, int, error) {
	sel := ComputePositionSelection(e.grid, e.tally, e.rd, e.bounds)

	adjacencyCandidates := topKValidIndices(e.grid.Rows, e.grid.Cols,
		func(r, c int) float64 { return sel.Adjacency[e.grid.idx(r, c)] },
		func(r, c int) bool { return sel.Valid[e.grid.idx(r, c)] },
		e.rd.AdjacencyCandidatesConsidered)

	selectionCandidates := topKFromIndices(adjacencyCandidates,
		func(r, c int) float64 { return sel.Weight[e.grid.idx(r, c)] },
		e.rd.CandidatesConsidered)

	if len(selectionCandidates) == 0 {
		return [2]int32{}, 0, noValidPositions("Executor.selectRandomPosition", e.iteration, e.grid.Rows, e.grid.Cols)
	}

	weights := make([]float64, len(selectionCandidates))
	for i, p := range selectionCandidates {
		weights[i] = sel.Weight[e.grid.idx(p.Row, p.Col)]
	}
	chosen := selectionCandidates[weightedChoice(weights, e.rng)]

	viable := ComputeViableTilesAtPosition(e.grid, e.rd.Compatibility, e.cache, chosen.Row, chosen.Col)
	if viable == 0 {
		if _, err := ResolveSpatialDeadlockAt(e, chosen.Row, chosen.Col); err != nil {
			return [2]int32{}, 0, err
		}
		e.forced.Reset()
		return e.selectRandomPosition()
	}

	viableTiles := colorMaskToColors(viable)
	probabilities := GetTileProbabilitiesAtPosition(e.grid, chosen.Row, chosen.Col)
	totalPlaced := 0
	for _, v := range e.tally {
		totalPlaced += v
	}
	correction := densityCorrection(e.tally, e.rd.SourceRatios, totalPlaced, probabilities, e.rd)
	logWeights := densityCorrectedColorLogWeights(viableTiles, probabilities, correction)
	colorIdx := logWeightedChoice(logWeights, e.rng)
	color := viableTiles[colorIdx]

	return e.grid.GridToWorld(chosen.Row, chosen.Col), color, nil
}

func colorMaskToColors(mask ColorMask) []int {
	var out []int
	for i := 0; i < 64; i++ {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, i+1)
		}
	}
	return out
}

func (e *Executor) placeTile(world [2]int32, color int) error {
	if err := e.extendGridAndFeasibility(world, e.rd.GridExtensionRadius); err != nil {
		return err
	}

	ApplyInfluenceAndEntropy(e.grid, e.rd, color, world)
	LockAndPropagateAdjacency(e.grid, color, world, e.rd.AdjacencyLevels)
	if color-1 >= 0 && color-1 < len(e.tally) {
		e.tally[color-1]++
	}
	return nil
}

func (e *Executor) postPlacementUpdates(world [2]int32) {
	UpdateFeasibilityCounts(e.grid, e.feasibility, e.rd, world)

	forced := DetectForcedPositions(e.grid, e.rd.Compatibility, e.cache, world)
	e.forced.Add(forced)

	if row, col, ok := CheckForContradiction(e.grid, e.rd.Compatibility, e.cache); ok {
		_, _ = ResolveSpatialDeadlockAt(e, row, col)
		e.forced.Reset()
	}
}

// ResolveSpatialDeadlockAt wraps ResolveSpatialDeadlock with the executor's
// owned state (tally, feasibility layer, run data), re-queuing any
// protected prefill placement that the resolution unlocked.
func ResolveSpatialDeadlockAt(e *Executor, row, col int) (DeadlockResult, error) {
	result := ResolveSpatialDeadlock(e.grid, e.feasibility, e.tally, e.rd, [2]int{row, col})
	if e.prefill != nil {
		for _, world := range result.UnlockedPositions {
			if color, ok := e.prefill.IsProtected(world); ok {
				e.prefill.QueueReplacement(PrefillPlacement{World: world, Color: color})
			}
		}
	}
	return result, nil
}

// selectInitialTile picks the very first placed color by the same
// weighted-choice rule used for position weights, consuming one draw from
// rng. The executor passes its single main rng, so the first color is the
// first draw of the seeded stream.
func selectInitialTile(sourceRatios []float64, rng *rand.Rand) int {
	total := 0.0
	for _, r := range sourceRatios {
		total += r
	}
	if total <= 0 {
		return len(sourceRatios)
	}
	randVal := rng.Float64() * total
	for i, r := range sourceRatios {
		randVal -= r
		if randVal <= 0 {
			return i + 1
		}
	}
	return len(sourceRatios)
}

// weightedChoice performs a linear cumulative-weight scan (not
// log-weighted) to pick an index from weights, proportional to weight.
func weightedChoice(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	randVal := rng.Float64() * total
	for i, w := range weights {
		randVal -= w
		if randVal <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// logWeightedChoice samples an index proportional to exp(logWeights[i]),
// computed via a max-shifted softmax to stay numerically stable regardless
// of how large or small the raw log-weights are.
func logWeightedChoice(logWeights []float64, rng *rand.Rand) int {
	if len(logWeights) == 0 {
		return 0
	}
	order := make([]int, len(logWeights))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return logWeights[order[i]] > logWeights[order[j]]
	})

	randomSource := rng.Float64()
	maxLogWeight := logWeights[order[0]]

	shifts := make([]float64, len(order))
	shiftSum := 0.0
	for i, idx := range order {
		shifts[i] = math.Exp(logWeights[idx] - maxLogWeight)
		shiftSum += shifts[i]
	}
	if shiftSum <= 0 {
		return order[len(order)-1]
	}

	cumulative := 0.0
	for i, idx := range order {
		cumulative += shifts[i] / shiftSum
		if cumulative >= randomSource {
			return idx
		}
	}
	return order[len(order)-1]
}
