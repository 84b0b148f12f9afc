package tilewave

// Config holds every tunable of the generation engine. Zero-value fields are
// replaced by DefaultConfig's defaults via Config.withDefaults; a caller only
// needs to set the fields it wants to override.
type Config struct {
	// TileSize is the side length of the square pattern window extracted
	// from the exemplar and matched against during generation. Fixed at 3
	// by the algorithm's design; exposed for documentation, not variation.
	TileSize int

	// PatternInfluenceDistance (k) controls how far the exemplar's pairwise
	// color statistics are sampled before tapering to the uniform
	// distribution. Larger values let long-range structure in the exemplar
	// bias generation further from any already-placed tile.
	PatternInfluenceDistance int

	// GridExtensionRadius (R) is the half-width of the influence tensor and
	// the padding applied whenever the grid must grow to admit a new
	// placement near its edge.
	GridExtensionRadius int32

	// BaseRemovalRadius and MaxRemovalRadius bound the Chebyshev radius used
	// to undo placements around a detected contradiction. The radius grows
	// with repeated contradictions at the same cell, up to MaxRemovalRadius.
	BaseRemovalRadius uint8
	MaxRemovalRadius  uint8

	// AdjacencyLevels bounds how many concentric rings around a placement
	// receive an adjacency-weight increment.
	AdjacencyLevels int

	// AdjacencyCandidatesConsidered and CandidatesConsidered bound the two
	// successive top-k passes of position selection: first the widest
	// pool is narrowed by adjacency score, then re-ranked by full weight.
	AdjacencyCandidatesConsidered int
	CandidatesConsidered          int

	// Seed drives every pseudo-random decision the executor makes. Equal
	// seed, equal exemplar statistics and equal prefill sequence produce an
	// identical run.
	Seed uint64

	// MaxIterations bounds RunIteration calls a caller is expected to make
	// before giving up; the engine itself does not enforce it.
	MaxIterations int

	// DensityCorrectionThreshold, DensityCorrectionSteepness and
	// DensityMinimumStrength parameterize the sigmoid that turns observed
	// color-frequency deviation into a density-correction strength.
	DensityCorrectionThreshold float64
	DensityCorrectionSteepness float64
	DensityMinimumStrength     float64

	// DensityImprovementTarget controls how aggressively the per-step
	// density correction pulls deviation back toward zero: the step aims at
	// the projected deviation times (1 - DensityImprovementTarget*strength),
	// where strength is the sigmoid output above.
	DensityImprovementTarget float64

	// GenerationBounds, if non-nil, confines placement to a fixed
	// rectangle in world coordinates and makes completion detectable.
	// A nil value means no bounds unless Executor.ApplyPrefill installs the
	// prefill's bounding box; with no bounds at all the engine runs until the
	// caller stops calling RunIteration and never reports completion.
	GenerationBounds *BoundingBox
}

// DefaultConfig returns the configuration used throughout the reference
// generation pipeline. Every numeric default below is load-bearing: it was
// tuned against the algorithm's coupled formulas, not chosen for readability.
func DefaultConfig() Config {
	return Config{
		TileSize:                      3,
		PatternInfluenceDistance:      6,
		GridExtensionRadius:           6,
		BaseRemovalRadius:             0,
		MaxRemovalRadius:              6,
		AdjacencyLevels:               2,
		AdjacencyCandidatesConsidered: 20,
		CandidatesConsidered:          15,
		Seed:                          42,
		MaxIterations:                 1000,
		DensityCorrectionThreshold:    0.10,
		DensityCorrectionSteepness:    0.05,
		DensityMinimumStrength:        0.10,
		DensityImprovementTarget:      0.05,
		GenerationBounds:              nil,
	}
}

// withDefaults fills any zero-valued field of c from DefaultConfig, except
// for fields whose legitimate zero value is meaningful (GenerationBounds).
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TileSize == 0 {
		c.TileSize = d.TileSize
	}
	if c.PatternInfluenceDistance == 0 {
		c.PatternInfluenceDistance = d.PatternInfluenceDistance
	}
	if c.GridExtensionRadius == 0 {
		c.GridExtensionRadius = d.GridExtensionRadius
	}
	if c.MaxRemovalRadius == 0 {
		c.MaxRemovalRadius = d.MaxRemovalRadius
	}
	if c.AdjacencyLevels == 0 {
		c.AdjacencyLevels = d.AdjacencyLevels
	}
	if c.AdjacencyCandidatesConsidered == 0 {
		c.AdjacencyCandidatesConsidered = d.AdjacencyCandidatesConsidered
	}
	if c.CandidatesConsidered == 0 {
		c.CandidatesConsidered = d.CandidatesConsidered
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.DensityCorrectionThreshold == 0 {
		c.DensityCorrectionThreshold = d.DensityCorrectionThreshold
	}
	if c.DensityCorrectionSteepness == 0 {
		c.DensityCorrectionSteepness = d.DensityCorrectionSteepness
	}
	if c.DensityMinimumStrength == 0 {
		c.DensityMinimumStrength = d.DensityMinimumStrength
	}
	if c.DensityImprovementTarget == 0 {
		c.DensityImprovementTarget = d.DensityImprovementTarget
	}
	return c
}

// validate reports a configuration error for any field combination the
// engine cannot act on.
func (c Config) validate() error {
	if c.TileSize != 3 {
		return invalidConfig("Config.validate", "TileSize must be 3, got %d", c.TileSize)
	}
	if c.GridExtensionRadius < 1 {
		return invalidConfig("Config.validate", "GridExtensionRadius must be >= 1, got %d", c.GridExtensionRadius)
	}
	if c.AdjacencyLevels < 1 {
		return invalidConfig("Config.validate", "AdjacencyLevels must be >= 1, got %d", c.AdjacencyLevels)
	}
	if c.MaxRemovalRadius < c.BaseRemovalRadius {
		return invalidConfig("Config.validate", "MaxRemovalRadius (%d) must be >= BaseRemovalRadius (%d)", c.MaxRemovalRadius, c.BaseRemovalRadius)
	}
	return nil
}

// minInfluenceMagnitude clamps the divisor used when reversing a placement's
// probability influence during deadlock resolution, so a near-zero tensor
// entry never produces +Inf/NaN probabilities. See DESIGN.md for the
// rationale (spec Open Question).
const minInfluenceMagnitude = 1e-20

// maxGridDimension is the hard safety cap on either grid axis.
const maxGridDimension = 10_000
