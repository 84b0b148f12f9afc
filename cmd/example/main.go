// Command example is the only place in this module where exemplar and
// tilewave are wired together end to end: it builds a small checkerboard
// source image in memory, derives generation statistics from it, runs the
// executor until the requested region is filled or cfg.MaxIterations
// iterations have run, and writes the result out as a PNG.
package main

import (
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/arborist-labs/tilewave"
	"github.com/arborist-labs/tilewave/exemplar"
)

const outputSize = 64

func main() {
	src := checkerExemplar(12)

	stats, err := exemplar.BuildFromImage(src, exemplar.Config{})
	if err != nil {
		log.Fatalf("building exemplar statistics: %v", err)
	}

	cfg := tilewave.DefaultConfig()
	half := int32(outputSize / 2)
	cfg.GenerationBounds = &tilewave.BoundingBox{
		Min: [2]int32{-half, -half},
		Max: [2]int32{half, half},
	}

	rd := &tilewave.RunData{
		UniqueCellCount:     stats.UniqueCellCount,
		SourceRatios:        stats.ExemplarRatios,
		SourceTiles:         stats.SourceTiles,
		Compatibility:       stats.Compatibility,
		Influence:           stats.Influence,
		GridExtensionRadius: stats.GridExtensionRadius,
	}

	exec, err := tilewave.NewExecutor(cfg, rd)
	if err != nil {
		log.Fatalf("creating executor: %v", err)
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		more, err := exec.RunIteration()
		if err != nil {
			log.Fatalf("iteration %d: %v", i, err)
		}
		if !more {
			log.Printf("generation complete after %d iterations", exec.Iteration())
			break
		}
	}

	out := renderGrid(exec.Grid(), stats.ColorPalette)
	file, err := os.Create("generated.png")
	if err != nil {
		log.Fatalf("creating output file: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, out); err != nil {
		log.Fatalf("encoding output: %v", err)
	}
}

// checkerExemplar builds a simple two-color checkerboard exemplar so the
// example runs without any external asset.
func checkerExemplar(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	a := color.RGBA{R: 41, G: 128, B: 185, A: 255}
	b := color.RGBA{R: 236, G: 240, B: 241, A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

// renderGrid paints every locked cell of grid using palette, leaving
// unlocked cells black.
func renderGrid(grid *tilewave.GridState, palette [][4]uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, grid.Cols, grid.Rows))
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			if !grid.IsLocked(r, c) {
				continue
			}
			colorID := grid.LockedAt(r, c) - 1 // LockedAt is tileID+1; here "tile" means color
			if colorID < 1 || int(colorID) > len(palette) {
				continue
			}
			rgba := palette[colorID-1]
			img.Set(c, r, color.RGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]})
		}
	}
	return img
}
