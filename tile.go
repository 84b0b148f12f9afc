package tilewave

import "math"

// Tile is a TileSize x TileSize window of color values extracted from an
// exemplar. A color value of 0 is never produced by extraction (exemplar
// colors are 1-based); 0 is reserved for "wildcard" when a Tile-shaped value
// is reused as a match pattern elsewhere in the package (see PatternKey).
type Tile [3][3]int

// ColorMask is a membership bitset over the unique colors of an exemplar,
// bit k set meaning color k+1 is present. The algorithm assumes an exemplar
// has at most 64 unique non-zero cell values; BuildFromImage enforces this.
type ColorMask uint64

// membershipMask returns the set of colors present anywhere in t, ignoring
// wildcard (zero) cells.
func membershipMask(t Tile) ColorMask {
	var mask ColorMask
	for _, row := range t {
		for _, v := range row {
			if v > 0 {
				mask |= 1 << uint(v-1)
			}
		}
	}
	return mask
}

// fullColorMask returns a mask with the low n bits set, representing "every
// color is currently viable" before any window has narrowed it down.
func fullColorMask(n int) ColorMask {
	if n >= 64 {
		return ColorMask(math.MaxUint64)
	}
	return ColorMask(1<<uint(n)) - 1
}

// ExtractTiles slides a TileSize x TileSize window over every position of
// source (row-major, source[row][col]), optionally expanding each window
// into its four 90-degree rotations and, if includeReflections is set,
// adding the horizontal reflection of each resulting variant. Tiles are
// deduplicated by exact content; the first occurrence of any distinct
// pattern determines its 1-based tile ID (element id-1 of the returned
// slice).
func ExtractTiles(source [][]int, tileSize int, includeRotations, includeReflections bool) []Tile {
	if tileSize <= 0 || len(source) < tileSize {
		return nil
	}
	rows := len(source)
	cols := len(source[0])
	if cols < tileSize {
		return nil
	}

	var extracted []Tile
	for r := 0; r+tileSize <= rows; r++ {
		for c := 0; c+tileSize <= cols; c++ {
			var t Tile
			for dr := 0; dr < tileSize; dr++ {
				for dc := 0; dc < tileSize; dc++ {
					t[dr][dc] = source[r+dr][c+dc]
				}
			}
			variants := []Tile{t}
			if includeRotations {
				variants = expandRotations(t)
			}
			if includeReflections {
				base := variants
				for _, v := range base {
					variants = append(variants, reflectTile(v))
				}
			}
			extracted = append(extracted, variants...)
		}
	}
	return deduplicateTiles(extracted)
}

func expandRotations(t Tile) []Tile {
	out := make([]Tile, 0, 4)
	cur := t
	for i := 0; i < 4; i++ {
		out = append(out, cur)
		cur = rotateTile90(cur)
	}
	return out
}

// rotateTile90 rotates t 90 degrees clockwise.
func rotateTile90(t Tile) Tile {
	var out Tile
	n := len(t)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i][j] = t[n-1-j][i]
		}
	}
	return out
}

// reflectTile mirrors t horizontally (left-right flip).
func reflectTile(t Tile) Tile {
	var out Tile
	n := len(t)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i][j] = t[i][n-1-j]
		}
	}
	return out
}

func deduplicateTiles(tiles []Tile) []Tile {
	seen := make(map[Tile]struct{}, len(tiles))
	out := make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// patternMatches reports whether candidate matches pattern cell by cell,
// treating any pattern cell <= 0 as a wildcard that matches anything.
func patternMatches(pattern, candidate Tile) bool {
	for i := range pattern {
		for j := range pattern[i] {
			p := pattern[i][j]
			if p <= 0 {
				continue
			}
			if candidate[i][j] != p {
				return false
			}
		}
	}
	return true
}
