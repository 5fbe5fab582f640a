package masonry

import (
	"github.com/matzehuels/masonry/pkg/geometry"
)

// Brick is a placeable unit: a host element, its shape and whether the
// current pass has committed it.
type Brick struct {
	Element    Element
	Shape      geometry.Shape
	Positioned bool
}

// ID returns the element's identifier.
func (b Brick) ID() string {
	if b.Element == nil {
		return ""
	}
	return b.Element.ID()
}

// Bounds returns the brick's bounding rectangle.
func (b Brick) Bounds() geometry.Rectangle { return b.Shape.Bounds() }

// Registry is the ordered arena of bricks owned by one engine. Order is
// fixed at construction; bricks are never added, removed or reordered.
type Registry struct {
	bricks []Brick
}

// NewRegistry builds bricks for els from the host's current geometry.
func NewRegistry(h Host, els []Element) (*Registry, error) {
	bricks := make([]Brick, 0, len(els))
	for _, el := range els {
		rect, err := h.Geometry(el)
		if err != nil {
			return nil, err
		}
		bricks = append(bricks, Brick{Element: el, Shape: geometry.RectShape(rect)})
	}
	return &Registry{bricks: bricks}, nil
}

// Len returns the number of bricks.
func (r *Registry) Len() int { return len(r.bricks) }

// At returns the brick at index i. The pointer aliases the arena and is
// only valid for the owning engine.
func (r *Registry) At(i int) *Brick { return &r.bricks[i] }

// Place moves brick i to (x, y) and marks it positioned.
func (r *Registry) Place(i int, x, y float64) {
	b := &r.bricks[i]
	b.Shape = b.Shape.MoveTo(x, y)
	b.Positioned = true
}

// Bricks returns a copy of the bricks in order.
func (r *Registry) Bricks() []Brick {
	out := make([]Brick, len(r.bricks))
	copy(out, r.bricks)
	return out
}
