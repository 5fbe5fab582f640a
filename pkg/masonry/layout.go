package masonry

import "github.com/matzehuels/masonry/pkg/geometry"

// Layout is a detached snapshot of a completed pass. It carries everything
// renderers need and is safe to serialize and cache.
type Layout struct {
	Boundary   Boundary    `json:"boundary"`
	Config     Config      `json:"config"`
	Placements []Placement `json:"placements"`
}

// Snapshot returns the result of the last [Engine.Layout] call. Before the
// first pass the placements are empty.
func (e *Engine) Snapshot() Layout {
	out := make([]Placement, len(e.placements))
	copy(out, e.placements)
	return Layout{Boundary: e.boundary, Config: e.config, Placements: out}
}

// Extent returns the rectangle covering the boundary origin and every
// placed brick.
func (l Layout) Extent() geometry.Rectangle {
	ext := geometry.NewRectangle(l.Boundary.X, l.Boundary.Y, 0, 0)
	for _, p := range l.Placements {
		ext = ext.Union(p.Rect())
	}
	return ext
}

// Width returns the horizontal extent of the layout, at least the boundary
// width.
func (l Layout) Width() float64 {
	return max(l.Extent().Right()-l.Boundary.X, l.Boundary.Width)
}

// Height returns the distance from the boundary top to the lowest brick
// bottom.
func (l Layout) Height() float64 {
	return l.Extent().Bottom() - l.Boundary.Y
}

// Columns returns the distinct column x offsets in first-use order.
func (l Layout) Columns() []float64 {
	var cols []float64
	seen := make(map[float64]bool)
	for _, p := range l.Placements {
		if !seen[p.X] {
			seen[p.X] = true
			cols = append(cols, p.X)
		}
	}
	return cols
}

// Rect returns the placement's rectangle.
func (p Placement) Rect() geometry.Rectangle {
	return geometry.NewRectangle(p.X, p.Y, p.Width, p.Height)
}
