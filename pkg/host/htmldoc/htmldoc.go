package htmldoc

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/matzehuels/masonry/pkg/geometry"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Default viewport size used when the document declares none.
const (
	DefaultViewportWidth  = 1280.0
	DefaultViewportHeight = 800.0
)

// Element wraps an element node of a [Document].
type Element struct {
	doc  *Document
	node *html.Node
	id   string
}

// ID returns the element's id attribute, or a generated "node-N" name for
// elements without one.
func (e *Element) ID() string { return e.id }

// Node returns the underlying HTML node.
func (e *Element) Node() *html.Node { return e.node }

// Option configures a [Document].
type Option func(*Document)

// WithViewport overrides the viewport size. It takes precedence over a
// viewport meta tag.
func WithViewport(width, height float64) Option {
	return func(d *Document) {
		d.viewport = geometry.NewRectangle(0, 0, width, height)
		d.fixedViewport = true
	}
}

// Document is a parsed HTML document acting as a layout host. It is safe
// for concurrent use.
type Document struct {
	mu            sync.Mutex
	root          *html.Node
	elements      map[*html.Node]*Element
	generated     int
	viewport      geometry.Rectangle
	fixedViewport bool
}

var _ masonry.Host = (*Document)(nil)

// Parse reads an HTML document from r.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	d := &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
		viewport: geometry.NewRectangle(0, 0, DefaultViewportWidth, DefaultViewportHeight),
	}
	for _, opt := range opts {
		opt(d)
	}
	if !d.fixedViewport {
		if w, ok := metaViewportWidth(root); ok {
			d.viewport = geometry.NewRectangle(0, 0, w, DefaultViewportHeight)
		}
	}
	return d, nil
}

// metaViewportWidth reads width=N from the viewport meta tag.
func metaViewportWidth(root *html.Node) (float64, bool) {
	meta := htmlquery.FindOne(root, `//meta[@name='viewport']`)
	if meta == nil {
		return 0, false
	}
	for _, field := range strings.Split(htmlquery.SelectAttr(meta, "content"), ",") {
		key, value, ok := strings.Cut(field, "=")
		if !ok || strings.TrimSpace(key) != "width" {
			continue
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || w <= 0 {
			return 0, false
		}
		return w, true
	}
	return 0, false
}

// isXPath reports whether selector should be evaluated as XPath.
func isXPath(selector string) bool {
	s := strings.TrimSpace(selector)
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(")
}

// QueryAll returns the element nodes matching selector in document order.
func (d *Document) QueryAll(selector string) ([]masonry.Element, error) {
	var nodes []*html.Node
	if isXPath(selector) {
		found, err := htmlquery.QueryAll(d.root, selector)
		if err != nil {
			return nil, fmt.Errorf("xpath %q: %w", selector, err)
		}
		nodes = found
	} else {
		sel, err := cascadia.Compile(selector)
		if err != nil {
			return nil, fmt.Errorf("css selector %q: %w", selector, err)
		}
		nodes = sel.MatchAll(d.root)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]masonry.Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		out = append(out, d.element(n))
	}
	return out, nil
}

// Children returns the element children of container.
func (d *Document) Children(container masonry.Element) ([]masonry.Element, error) {
	parent, err := d.own(container)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var out []masonry.Element
	for c := parent.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, d.element(c))
		}
	}
	return out, nil
}

// Geometry reads the element's rectangle from its inline style.
func (d *Document) Geometry(e masonry.Element) (geometry.Rectangle, error) {
	el, err := d.own(e)
	if err != nil {
		return geometry.Rectangle{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	decls := parseStyle(htmlquery.SelectAttr(el.node, "style"))
	length := func(prop, fallback string) float64 {
		if v, ok := lookup(decls, prop); ok {
			if n, ok := parseLength(v); ok {
				return n
			}
		}
		if fallback != "" {
			if n, ok := parseLength(htmlquery.SelectAttr(el.node, fallback)); ok {
				return n
			}
		}
		return 0
	}

	return geometry.NewRectangle(
		length("left", ""),
		length("top", ""),
		length("width", "data-width"),
		length("height", "data-height"),
	), nil
}

// Viewport returns the document's viewport.
func (d *Document) Viewport() (geometry.Rectangle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport, nil
}

// SetPosition rewrites the element's inline style to place it at (x, y).
func (d *Document) SetPosition(e masonry.Element, x, y float64) error {
	el, err := d.own(e)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	decls := withPosition(parseStyle(htmlquery.SelectAttr(el.node, "style")), x, y)
	setAttr(el.node, "style", formatStyle(decls))
	return nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// element returns the cached wrapper for n. The caller holds d.mu.
func (d *Document) element(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	id := htmlquery.SelectAttr(n, "id")
	if id == "" {
		d.generated++
		id = fmt.Sprintf("node-%d", d.generated)
	}
	el := &Element{doc: d, node: n, id: id}
	d.elements[n] = el
	return el
}

func (d *Document) own(e masonry.Element) (*Element, error) {
	el, ok := e.(*Element)
	if !ok || el == nil {
		return nil, fmt.Errorf("element %v does not belong to an html document", e)
	}
	if el.doc != d {
		return nil, fmt.Errorf("element %q belongs to another document", el.id)
	}
	return el, nil
}

func setAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}
