package main

import (
	"fmt"
	"time"

	"github.com/arborist-labs/tilewave"
	"github.com/kelindar/bench"
)

var boundSizes = []int32{8, 16, 32}

func main() {
	bench.Run(func(b *bench.B) {
		runIteration(b)
	}, bench.WithDuration(10*time.Millisecond), bench.WithSamples(50))
}

func runIteration(b *bench.B) {
	for _, size := range boundSizes {
		exec := newExecutor(size)
		name := fmt.Sprintf("RunIteration (bounds %dx%d)", size, size)
		b.Run(name, func(i int) {
			more, err := exec.RunIteration()
			if err != nil || !more {
				exec = newExecutor(size)
			}
		})
	}
}

func newExecutor(bound int32) *tilewave.Executor {
	tiles := uniformTwoColorTiles()
	rd := &tilewave.RunData{
		UniqueCellCount:     2,
		SourceRatios:        []float64{0.5, 0.5},
		SourceTiles:         tiles,
		Compatibility:       tilewave.BuildCompatibilityIndex(tiles, 2),
		Influence:           flatInfluenceTensor(2, 6, 1.05),
		GridExtensionRadius: 6,
	}
	cfg := tilewave.DefaultConfig()
	half := bound / 2
	cfg.GenerationBounds = &tilewave.BoundingBox{
		Min: [2]int32{-half, -half},
		Max: [2]int32{half, half},
	}
	exec, err := tilewave.NewExecutor(cfg, rd)
	if err != nil {
		panic(err)
	}
	return exec
}

// uniformTwoColorTiles mirrors the core package's own test fixtures: two
// purely-homogeneous 3x3 tiles, one per color, the simplest case that still
// exercises the full placement pipeline.
func uniformTwoColorTiles() []tilewave.Tile {
	var a, b tilewave.Tile
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			a[r][c] = 1
			b[r][c] = 2
		}
	}
	return []tilewave.Tile{a, b}
}

func flatInfluenceTensor(uniqueCellCount int, radius int32, value float64) *tilewave.InfluenceTensor {
	t := tilewave.NewInfluenceTensor(uniqueCellCount, radius)
	for s := 1; s <= uniqueCellCount; s++ {
		for c := 1; c <= uniqueCellCount; c++ {
			for i := -radius; i <= radius; i++ {
				for j := -radius; j <= radius; j++ {
					t.Set(s, c, i, j, value)
				}
			}
		}
	}
	return t
}
