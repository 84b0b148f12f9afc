package tilewave

// CompatibilityIndex answers, for any required-color subset ("mask"), which
// extracted tiles contain at least that subset of colors somewhere in their
// 3x3 window. It is built once from a tile set and reused for the lifetime
// of a generation run.
//
// The index is a dense table over all 2^U possible masks (U = unique color
// count), which is only practical because U is small (exemplars are
// expected to have at most a few dozen distinct colors); BuildFromImage
// enforces an upper bound of 64.
type CompatibilityIndex struct {
	rules           []TileBitset
	tiles           []Tile
	uniqueCellCount int
	tileCount       int
}

// BuildCompatibilityIndex constructs the index for tiles over an exemplar
// with uniqueCellCount distinct colors.
func BuildCompatibilityIndex(tiles []Tile, uniqueCellCount int) *CompatibilityIndex {
	maskCount := 1 << uint(uniqueCellCount)
	idx := &CompatibilityIndex{
		rules:           make([]TileBitset, maskCount),
		tiles:           tiles,
		uniqueCellCount: uniqueCellCount,
		tileCount:       len(tiles),
	}

	memberships := make([]ColorMask, len(tiles))
	for i, t := range tiles {
		memberships[i] = membershipMask(t)
	}

	for mask := 0; mask < maskCount; mask++ {
		set := NewTileBitset(len(tiles))
		required := ColorMask(mask)
		for i, m := range memberships {
			if required&^m == 0 {
				set.Insert(i + 1)
			}
		}
		idx.rules[mask] = set
	}
	return idx
}

// Candidates returns the tile IDs whose color membership is a superset of
// mask.
func (c *CompatibilityIndex) Candidates(mask ColorMask) TileBitset {
	return c.rules[mask]
}

// tileAt returns the tile definition for a 1-based tile ID.
func (c *CompatibilityIndex) tileAt(tileID int) Tile {
	return c.tiles[tileID-1]
}

// Tiles returns the full tile set backing this index.
func (c *CompatibilityIndex) Tiles() []Tile {
	return c.tiles
}
