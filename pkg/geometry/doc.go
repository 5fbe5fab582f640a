// Package geometry provides the primitives the masonry engine reasons about:
// coordinates, axis-aligned rectangles, and the [Shape] union used for
// collision tests.
//
// # Coordinate Space
//
// All values are in host units (CSS pixels for browser and HTML hosts). The
// origin is the top-left corner of the boundary and y grows downward, so a
// rectangle's Bottom is always greater than or equal to its Top.
//
// # Collisions
//
// [Overlaps] is inclusive: two rectangles whose edges coincide are reported
// as colliding. The layout engine relies on this to keep a gap between
// stacked bricks rather than letting them sit flush.
//
//	a := geometry.NewRectangle(0, 0, 240, 100)
//	b := geometry.NewRectangle(240, 0, 240, 100)
//	geometry.Overlaps(geometry.RectShape(a), geometry.RectShape(b)) // true: shared edge at x=240
package geometry
