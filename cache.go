package tilewave

// PatternKey identifies a single 3x3 viable-color lookup: the flattened
// pattern (row-major, wildcard cells <= 0) together with the target cell
// (within that 3x3 window) whose viable colors are being asked for.
type PatternKey struct {
	Pattern             [9]int
	TargetRow, TargetCol int
}

func newPatternKey(pattern Tile, targetRow, targetCol int) PatternKey {
	var k PatternKey
	i := 0
	for r := range pattern {
		for c := range pattern[r] {
			k.Pattern[i] = pattern[r][c]
			i++
		}
	}
	k.TargetRow = targetRow
	k.TargetCol = targetCol
	return k
}

// CacheStats reports hit/miss counts for a ViableTilesCache.
type CacheStats struct {
	Hits   int
	Misses int
}

// ViableTilesCache memoizes the viable-colors-at-a-target-cell computation
// keyed by PatternKey, since the same local pattern recurs constantly once
// generation settles into a region of the grid.
type ViableTilesCache struct {
	entries map[PatternKey]ColorMask
	stats   CacheStats
}

// NewViableTilesCache returns an empty cache.
func NewViableTilesCache() *ViableTilesCache {
	return &ViableTilesCache{entries: make(map[PatternKey]ColorMask)}
}

// GetOrCompute returns the cached result for key, computing and storing it
// via compute on a miss.
func (c *ViableTilesCache) GetOrCompute(key PatternKey, compute func() ColorMask) ColorMask {
	if v, ok := c.entries[key]; ok {
		c.stats.Hits++
		return v
	}
	c.stats.Misses++
	v := compute()
	c.entries[key] = v
	return v
}

// Stats returns a snapshot of the cache's hit/miss counters.
func (c *ViableTilesCache) Stats() CacheStats {
	return c.stats
}
