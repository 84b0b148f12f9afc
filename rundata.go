package tilewave

// InfluenceTensor holds the learned probability-influence field: entry
// At(sourceColor, targetColor, di, dj) multiplies the unnormalized
// probability of targetColor at a grid offset (di, dj) from a placement of
// sourceColor, where di, dj range over [-Radius, Radius]. It is produced by
// the exemplar package and consumed read-only by the core engine.
type InfluenceTensor struct {
	UniqueCellCount int
	Radius          int32
	data            []float64 // [source-1][target-1][di+R][dj+R], flattened
}

// NewInfluenceTensor allocates a zeroed tensor of the given shape.
func NewInfluenceTensor(uniqueCellCount int, radius int32) *InfluenceTensor {
	side := int(2*radius + 1)
	return &InfluenceTensor{
		UniqueCellCount: uniqueCellCount,
		Radius:          radius,
		data:            make([]float64, uniqueCellCount*uniqueCellCount*side*side),
	}
}

func (t *InfluenceTensor) side() int { return int(2*t.Radius + 1) }

func (t *InfluenceTensor) index(source, target, di, dj int) int {
	s := t.side()
	return ((source*t.UniqueCellCount+target)*s+di)*s + dj
}

// At returns the influence of a placement of color sourceColor (1-based) on
// the probability of targetColor (1-based) at offset (di, dj), di and dj
// each in [-Radius, Radius].
func (t *InfluenceTensor) At(sourceColor, targetColor int, di, dj int32) float64 {
	return t.data[t.index(sourceColor-1, targetColor-1, int(di+t.Radius), int(dj+t.Radius))]
}

// Set stores the influence value for a placement of sourceColor on
// targetColor at offset (di, dj).
func (t *InfluenceTensor) Set(sourceColor, targetColor int, di, dj int32, value float64) {
	t.data[t.index(sourceColor-1, targetColor-1, int(di+t.Radius), int(dj+t.Radius))] = value
}

// RunData bundles the exemplar-derived, read-only statistics a generation
// run needs alongside the mutable GridState: source tiles, their
// compatibility index, per-color target ratios, and the density-correction
// tuning carried over from Config.
type RunData struct {
	UniqueCellCount int
	SourceRatios    []float64 // length UniqueCellCount, sums to ~1
	SourceTiles     []Tile
	Compatibility   *CompatibilityIndex
	Influence       *InfluenceTensor
	GridExtensionRadius int32

	DensityCorrectionThreshold float64
	DensityCorrectionSteepness float64
	DensityMinimumStrength     float64
	DensityImprovementTarget   float64

	AdjacencyLevels               int
	AdjacencyCandidatesConsidered int
	CandidatesConsidered          int
	BaseRemovalRadius             uint8
	MaxRemovalRadius              uint8
}
