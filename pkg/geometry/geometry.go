package geometry

import "fmt"

// Coordinate is an (x, y) pair. It doubles as a (width, height) pair when
// used as a rectangle's dimension.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rectangle is an axis-aligned box described by its top-left position and
// its dimension.
type Rectangle struct {
	Position  Coordinate `json:"position"`
	Dimension Coordinate `json:"dimension"`
}

// NewRectangle builds a rectangle at (x, y) with the given size.
// Negative sizes are clamped to zero.
func NewRectangle(x, y, width, height float64) Rectangle {
	return Rectangle{
		Position:  Coordinate{X: x, Y: y},
		Dimension: Coordinate{X: max(0, width), Y: max(0, height)},
	}
}

// Left returns the x coordinate of the left edge.
func (r Rectangle) Left() float64 { return r.Position.X }

// Right returns the x coordinate of the right edge.
func (r Rectangle) Right() float64 { return r.Position.X + r.Dimension.X }

// Top returns the y coordinate of the top edge.
func (r Rectangle) Top() float64 { return r.Position.Y }

// Bottom returns the y coordinate of the bottom edge.
func (r Rectangle) Bottom() float64 { return r.Position.Y + r.Dimension.Y }

// Width returns the horizontal span.
func (r Rectangle) Width() float64 { return r.Dimension.X }

// Height returns the vertical span.
func (r Rectangle) Height() float64 { return r.Dimension.Y }

// MoveTo returns a copy of r with its top-left corner at (x, y).
func (r Rectangle) MoveTo(x, y float64) Rectangle {
	r.Position = Coordinate{X: x, Y: y}
	return r
}

// Union returns the smallest rectangle containing both r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	left, top := min(r.Left(), o.Left()), min(r.Top(), o.Top())
	right, bottom := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return NewRectangle(left, top, right-left, bottom-top)
}

// Intersects reports whether r and o share any point, edges included.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.Left() <= o.Right() &&
		r.Right() >= o.Left() &&
		r.Top() <= o.Bottom() &&
		r.Bottom() >= o.Top()
}

func (r Rectangle) String() string {
	return fmt.Sprintf("Rect(x=%g, y=%g, w=%g, h=%g)", r.Position.X, r.Position.Y, r.Dimension.X, r.Dimension.Y)
}

// Kind identifies the variant held by a [Shape].
type Kind int

const (
	// KindRectangle is an axis-aligned rectangle.
	KindRectangle Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Shape is a tagged union over the supported shape variants. Only
// rectangles exist today; new variants add a Kind and a case in Overlaps.
type Shape struct {
	kind Kind
	rect Rectangle
}

// RectShape wraps r as a Shape.
func RectShape(r Rectangle) Shape {
	return Shape{kind: KindRectangle, rect: r}
}

// Kind returns the variant tag.
func (s Shape) Kind() Kind { return s.kind }

// Bounds returns the bounding rectangle of the shape.
func (s Shape) Bounds() Rectangle { return s.rect }

// MoveTo returns a copy of s translated so its bounds start at (x, y).
func (s Shape) MoveTo(x, y float64) Shape {
	s.rect = s.rect.MoveTo(x, y)
	return s
}

// Overlaps reports whether s and o collide.
func (s Shape) Overlaps(o Shape) bool {
	return Overlaps(s, o)
}

// Overlaps reports whether a and b collide. The test is inclusive of
// touching edges.
func Overlaps(a, b Shape) bool {
	switch {
	case a.kind == KindRectangle && b.kind == KindRectangle:
		return a.rect.Intersects(b.rect)
	default:
		return false
	}
}
