package exemplar

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/arborist-labs/tilewave"
)

// Config tunes how an exemplar image is turned into generation statistics.
// Zero-valued fields fall back to the same defaults tilewave.DefaultConfig
// uses for the corresponding generation parameters, so a caller normally
// only needs to override PatternInfluenceDistance/GridExtensionRadius if it
// is also overriding them on the generation side.
type Config struct {
	TileSize                 int
	IncludeRotations         bool
	IncludeReflections       bool
	PatternInfluenceDistance int
	GridExtensionRadius      int32
}

func (c Config) withDefaults() Config {
	if c.TileSize == 0 {
		c.TileSize = 3
	}
	if c.PatternInfluenceDistance == 0 {
		c.PatternInfluenceDistance = 6
	}
	if c.GridExtensionRadius == 0 {
		c.GridExtensionRadius = 6
	}
	return c
}

// Stats is the complete tuple the tilewave generation engine needs to run,
// derived from a single exemplar image: unique color count, per-color
// target ratios, the extracted tile set and its compatibility index, the
// learned influence tensor, the grid extension radius it was built for,
// and the color palette needed to render a generated grid back to pixels.
type Stats struct {
	UniqueCellCount     int
	ExemplarRatios      []float64
	SourceTiles         []tilewave.Tile
	Compatibility       *tilewave.CompatibilityIndex
	Influence           *tilewave.InfluenceTensor
	GridExtensionRadius int32
	ColorPalette        [][4]uint8 // index i is the RGBA for color i+1
}

// maxSupportedColors matches tilewave.ColorMask's uint64 backing: the
// compatibility index enumerates 2^UniqueCellCount masks, which is only
// tractable (and only representable as a ColorMask) up to 64 colors.
const maxSupportedColors = 64

// BuildFromImage extracts every statistic in Stats from img, treating each
// distinct pixel color as one exemplar color, in first-encounter order
// (row-major).
func BuildFromImage(img image.Image, cfg Config) (*Stats, error) {
	cfg = cfg.withDefaults()

	bounds := img.Bounds()
	rows := bounds.Dy()
	cols := bounds.Dx()
	if rows < cfg.TileSize || cols < cfg.TileSize {
		return nil, fmt.Errorf("exemplar: BuildFromImage: image %dx%d smaller than tile size %d", cols, rows, cfg.TileSize)
	}

	colorIndex := make(map[[4]uint8]int)
	var palette [][4]uint8
	grid := make([][]int, rows)
	cellsByColor := make(map[int][][2]int)

	for y := 0; y < rows; y++ {
		grid[y] = make([]int, cols)
		for x := 0; x < cols; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			key := [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
			id, ok := colorIndex[key]
			if !ok {
				palette = append(palette, key)
				id = len(palette)
				colorIndex[key] = id
			}
			grid[y][x] = id
			cellsByColor[id] = append(cellsByColor[id], [2]int{y, x})
		}
	}

	uniqueCellCount := len(palette)
	if uniqueCellCount == 0 {
		return nil, errors.New("exemplar: BuildFromImage: image has no pixels")
	}
	if uniqueCellCount > maxSupportedColors {
		return nil, fmt.Errorf("exemplar: BuildFromImage: image has %d distinct colors, exceeding the supported maximum of %d", uniqueCellCount, maxSupportedColors)
	}

	totalPixels := rows * cols
	ratios := make([]float64, uniqueCellCount)
	for id, cells := range cellsByColor {
		ratios[id-1] = float64(len(cells)) / float64(totalPixels)
	}

	tiles := tilewave.ExtractTiles(grid, cfg.TileSize, cfg.IncludeRotations, cfg.IncludeReflections)
	if len(tiles) == 0 {
		return nil, errors.New("exemplar: BuildFromImage: no tiles extracted from exemplar")
	}
	compat := tilewave.BuildCompatibilityIndex(tiles, uniqueCellCount)

	proc := &processor{
		uniqueCellCount:          uniqueCellCount,
		sourceRatios:             ratios,
		patternInfluenceDistance: float64(cfg.PatternInfluenceDistance),
		gridExtensionRadius:      cfg.GridExtensionRadius,
	}
	influence, err := proc.buildInfluenceTensor(cellsByColor)
	if err != nil {
		return nil, err
	}

	return &Stats{
		UniqueCellCount:     uniqueCellCount,
		ExemplarRatios:      ratios,
		SourceTiles:         tiles,
		Compatibility:       compat,
		Influence:           influence,
		GridExtensionRadius: cfg.GridExtensionRadius,
		ColorPalette:        palette,
	}, nil
}

// processor runs the statistical pipeline that turns raw exemplar pixel
// positions into a 4D influence tensor: pairwise distance extraction,
// kernel density estimation, log-ratio mixture normalization fit with a
// natural cubic spline, locality tapering back to the uniform distribution,
// and final inverse-distance-weighted tensor assembly.
type processor struct {
	uniqueCellCount          int
	sourceRatios             []float64
	patternInfluenceDistance float64
	gridExtensionRadius      int32
}

func (p *processor) buildInfluenceTensor(cellsByColor map[int][][2]int) (*tilewave.InfluenceTensor, error) {
	pairDistances := calculateIntegerPairDistances(cellsByColor)

	distributions := make(map[colorPair]smoothKernelDistribution, len(pairDistances))
	byFrom := make(map[int][]colorPair)
	for pair, entries := range pairDistances {
		distributions[pair] = newSmoothKernelDistribution(pair, entries)
		byFrom[pair.From] = append(byFrom[pair.From], pair)
	}

	samplePoints := ExponentialSamplePoints(p.patternInfluenceDistance)
	if len(samplePoints) < 2 {
		return nil, errors.New("exemplar: buildInfluenceTensor: too few distance sample points; increase PatternInfluenceDistance")
	}

	totalDistributions := float64(len(distributions))
	interpolations := make(map[colorPair]*cubic)

	for from, pairs := range byFrom {
		_ = from
		for _, pair := range pairs {
			dist := distributions[pair]
			ys := make([]float64, len(samplePoints))
			for i, x := range samplePoints {
				pdfSingle := dist.pdf(x)
				mixture := 0.0
				for _, other := range pairs {
					mixture += distributions[other].pdf(x)
				}
				mixture /= float64(len(pairs))

				if mixture > 0 && pdfSingle > 0 {
					ys[i] = math.Log(pdfSingle*float64(len(pairs))/mixture) - math.Log(totalDistributions)
				} else {
					ys[i] = -math.Log(totalDistributions)
				}
			}
			c, err := newCubic(samplePoints, ys)
			if err != nil {
				return nil, err
			}
			interpolations[pair] = c
		}
	}

	tapered := func(pair colorPair, x float64) float64 {
		interp, ok := interpolations[pair]
		logRatio := math.Log(p.sourceRatios[pair.To-1])
		if !ok {
			return logRatio
		}
		sourceMin := p.patternInfluenceDistance
		if x > sourceMin {
			return logRatio
		}
		taper := localityTaper(x, sourceMin)
		sourceVal := interp.evaluate(x)
		return sourceVal*(1-taper) + taper*logRatio
	}

	radius := p.gridExtensionRadius
	tensor := tilewave.NewInfluenceTensor(p.uniqueCellCount, radius)
	for source := 1; source <= p.uniqueCellCount; source++ {
		for target := 1; target <= p.uniqueCellCount; target++ {
			pair := colorPair{From: source, To: target}
			for i := -radius; i <= radius; i++ {
				for j := -radius; j <= radius; j++ {
					dist := math.Max(math.Sqrt(float64(i*i+j*j)), 1.0)
					falloff := 1.0 / dist
					logValue := tapered(pair, math.Sqrt(float64(i*i+j*j)))
					tensor.Set(source, target, i, j, falloff*math.Exp(logValue))
				}
			}
		}
	}
	return tensor, nil
}
