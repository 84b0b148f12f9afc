package tilewave

// PrefillPlacement is a single pre-determined placement: a world position
// that must receive a specific color before stochastic generation begins to
// fill in the rest of the grid.
type PrefillPlacement struct {
	World [2]int32
	Color int
}

// PrefillData is an ordered queue of placements the executor drains before
// falling back to weighted position selection, together with the set of
// positions those placements protect from deadlock-triggered removal.
type PrefillData struct {
	queue     []PrefillPlacement
	protected map[[2]int32]int
	bounds    BoundingBox
	hasBounds bool
}

// NewPrefillData builds a PrefillData from an ordered placement list. It
// returns an error if placements is empty, matching the upstream
// algorithm's refusal to run with a vacuous prefill pass.
func NewPrefillData(placements []PrefillPlacement) (*PrefillData, error) {
	if len(placements) == 0 {
		return nil, invalidConfig("NewPrefillData", "placement queue must not be empty")
	}
	p := &PrefillData{
		queue:     append([]PrefillPlacement(nil), placements...),
		protected: make(map[[2]int32]int, len(placements)),
	}
	for i, pl := range placements {
		p.protected[pl.World] = pl.Color
		b := BoundingBox{Min: pl.World, Max: pl.World}
		if i == 0 {
			p.bounds = b
		} else {
			p.bounds = p.bounds.union(b)
		}
	}
	p.hasBounds = true
	return p, nil
}

// Bounds returns the smallest BoundingBox covering every prefill placement.
func (p *PrefillData) Bounds() (BoundingBox, bool) {
	return p.bounds, p.hasBounds
}

// IsProtected reports whether world is a prefill-designated position.
func (p *PrefillData) IsProtected(world [2]int32) (int, bool) {
	color, ok := p.protected[world]
	return color, ok
}

// NextPlacement pops the earliest-queued placement, if any remain.
func (p *PrefillData) NextPlacement() (PrefillPlacement, bool) {
	if len(p.queue) == 0 {
		return PrefillPlacement{}, false
	}
	pl := p.queue[0]
	p.queue = p.queue[1:]
	return pl, true
}

// QueueReplacement pushes pl back to the front of the queue, used when a
// deadlock unlocks a protected prefill position and it must be re-applied.
func (p *PrefillData) QueueReplacement(pl PrefillPlacement) {
	p.queue = append([]PrefillPlacement{pl}, p.queue...)
}

// IsEmpty reports whether the placement queue has been fully drained.
func (p *PrefillData) IsEmpty() bool { return len(p.queue) == 0 }
