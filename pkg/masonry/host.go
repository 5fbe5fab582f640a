package masonry

import "github.com/matzehuels/masonry/pkg/geometry"

// Element is a non-owning reference to a presentable unit in a host.
// ID must be stable for the lifetime of the host.
type Element interface {
	ID() string
}

// Host is the presentation environment bricks live in. The engine reads
// geometry from it once, at construction, and writes positions back during
// Layout.
type Host interface {
	// QueryAll returns the elements matching selector in document order.
	QueryAll(selector string) ([]Element, error)
	// Children returns the direct child elements of container.
	Children(container Element) ([]Element, error)
	// Geometry returns the current bounding rectangle of el.
	Geometry(el Element) (geometry.Rectangle, error)
	// Viewport returns the visible area of the host.
	Viewport() (geometry.Rectangle, error)
	// SetPosition moves el so its top-left corner is at (x, y).
	SetPosition(el Element, x, y float64) error
}
