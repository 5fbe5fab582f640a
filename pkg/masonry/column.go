package masonry

// columnTracker answers "where does the next brick go in column x" from
// the bricks already placed in the current pass.
type columnTracker struct {
	registry *Registry
	rowGap   float64
}

// lastInColumn returns the index of the most recent brick before i whose
// left edge is exactly x. Later bricks shadow earlier ones.
func (t columnTracker) lastInColumn(i int, x float64) (int, bool) {
	for j := i - 1; j >= 0; j-- {
		b := t.registry.At(j)
		if b.Positioned && b.Bounds().Left() == x {
			return j, true
		}
	}
	return 0, false
}

// offset resolves the vertical offset for brick i placed at column x.
// An empty column starts at top. A column match only pushes the brick down
// when the brick, moved next to the match, collides with it; otherwise the
// brick keeps its current y.
func (t columnTracker) offset(i int, x, top float64) (y float64, stacked bool) {
	j, ok := t.lastInColumn(i, x)
	if !ok {
		return top, false
	}

	match := t.registry.At(j).Shape
	current := t.registry.At(i).Shape
	trial := current.MoveTo(x, match.Bounds().Top())
	if !match.Overlaps(trial) {
		return current.Bounds().Top(), false
	}
	return match.Bounds().Bottom() + t.rowGap, true
}
