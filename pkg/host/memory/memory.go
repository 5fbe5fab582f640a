// Package memory provides an in-process [masonry.Host] backed by a plain
// document of rectangles.
//
// It is the host used by scene files, the HTTP API and the terminal
// preview: nothing is rendered, geometry is whatever the document says and
// every write is recorded so callers can inspect the traffic afterwards.
//
// Supported selectors are "*", "tag", "#id" and ".class". A comma separates
// alternatives, matched in document order without duplicates.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/masonry/pkg/geometry"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Spec describes an element to add to a [Document].
type Spec struct {
	ID      string
	Tag     string
	Classes []string
	Parent  string // empty for top-level elements
	Rect    geometry.Rectangle
}

// Element is a node of a [Document].
type Element struct {
	doc  *Document
	spec Spec
}

// ID returns the element's unique identifier.
func (e *Element) ID() string { return e.spec.ID }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.spec.Tag }

// Classes returns the element's class names.
func (e *Element) Classes() []string { return e.spec.Classes }

// Parent returns the parent's ID, or "" for top-level elements.
func (e *Element) Parent() string { return e.spec.Parent }

func (e *Element) hasClass(c string) bool {
	for _, k := range e.spec.Classes {
		if k == c {
			return true
		}
	}
	return false
}

// Write is one recorded SetPosition call.
type Write struct {
	ID string
	X  float64
	Y  float64
}

// Document is an ordered collection of elements. It is safe for
// concurrent use.
type Document struct {
	mu       sync.Mutex
	elements []*Element
	byID     map[string]*Element
	viewport geometry.Rectangle
	writes   []Write
	failing  map[string]error
}

var _ masonry.Host = (*Document)(nil)

// New returns an empty document with the given viewport size.
func New(viewportWidth, viewportHeight float64) *Document {
	return &Document{
		byID:     make(map[string]*Element),
		viewport: geometry.NewRectangle(0, 0, viewportWidth, viewportHeight),
	}
}

// Add appends an element. IDs must be unique and non-empty, and a parent
// must be added before its children.
func (d *Document) Add(s Spec) (*Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s.ID == "" {
		return nil, fmt.Errorf("element id is required")
	}
	if _, dup := d.byID[s.ID]; dup {
		return nil, fmt.Errorf("duplicate element id %q", s.ID)
	}
	if s.Parent != "" {
		if _, ok := d.byID[s.Parent]; !ok {
			return nil, fmt.Errorf("element %q: unknown parent %q", s.ID, s.Parent)
		}
	}
	s.Rect = geometry.NewRectangle(s.Rect.Left(), s.Rect.Top(), s.Rect.Width(), s.Rect.Height())
	el := &Element{doc: d, spec: s}
	d.elements = append(d.elements, el)
	d.byID[s.ID] = el
	return el, nil
}

// MustAdd is like Add but panics on error. It is meant for tests and
// fixtures.
func (d *Document) MustAdd(s Spec) *Element {
	el, err := d.Add(s)
	if err != nil {
		panic(err)
	}
	return el
}

// Lookup returns the element with the given ID.
func (d *Document) Lookup(id string) (*Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.byID[id]
	return el, ok
}

// Elements returns all elements in document order.
func (d *Document) Elements() []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Element, len(d.elements))
	copy(out, d.elements)
	return out
}

// QueryAll returns the elements matching selector in document order.
func (d *Document) QueryAll(selector string) ([]masonry.Element, error) {
	var alts []string
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty selector in %q", selector)
		}
		if strings.ContainsAny(part, " >+~[]:") {
			return nil, fmt.Errorf("unsupported selector %q", part)
		}
		alts = append(alts, part)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var out []masonry.Element
	for _, el := range d.elements {
		for _, alt := range alts {
			if matches(el, alt) {
				out = append(out, el)
				break
			}
		}
	}
	return out, nil
}

func matches(el *Element, sel string) bool {
	switch {
	case sel == "*":
		return true
	case strings.HasPrefix(sel, "#"):
		return el.spec.ID == sel[1:]
	case strings.HasPrefix(sel, "."):
		return el.hasClass(sel[1:])
	default:
		return strings.EqualFold(el.spec.Tag, sel)
	}
}

// Children returns the direct children of container in document order.
func (d *Document) Children(container masonry.Element) ([]masonry.Element, error) {
	parent, err := d.own(container)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var out []masonry.Element
	for _, el := range d.elements {
		if el.spec.Parent == parent.spec.ID {
			out = append(out, el)
		}
	}
	return out, nil
}

// Geometry returns the element's current rectangle.
func (d *Document) Geometry(e masonry.Element) (geometry.Rectangle, error) {
	el, err := d.own(e)
	if err != nil {
		return geometry.Rectangle{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return el.spec.Rect, nil
}

// Viewport returns the document's viewport rectangle.
func (d *Document) Viewport() (geometry.Rectangle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport, nil
}

// SetPosition moves the element and records the write.
func (d *Document) SetPosition(e masonry.Element, x, y float64) error {
	el, err := d.own(e)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failing[el.spec.ID]; err != nil {
		return err
	}
	el.spec.Rect = el.spec.Rect.MoveTo(x, y)
	d.writes = append(d.writes, Write{ID: el.spec.ID, X: x, Y: y})
	return nil
}

// Writes returns every SetPosition call recorded so far.
func (d *Document) Writes() []Write {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Write, len(d.writes))
	copy(out, d.writes)
	return out
}

// ResetWrites clears the write log.
func (d *Document) ResetWrites() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = nil
}

// FailWrites makes every SetPosition on id return err. A nil err clears it.
func (d *Document) FailWrites(id string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failing == nil {
		d.failing = make(map[string]error)
	}
	if err == nil {
		delete(d.failing, id)
		return
	}
	d.failing[id] = err
}

func (d *Document) own(e masonry.Element) (*Element, error) {
	el, ok := e.(*Element)
	if !ok || el == nil {
		return nil, fmt.Errorf("element %v does not belong to a memory document", e)
	}
	if el.doc != d {
		return nil, fmt.Errorf("element %q belongs to another document", el.spec.ID)
	}
	return el, nil
}
