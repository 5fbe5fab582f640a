// Package browser implements [masonry.Host] on top of a live Chrome page
// driven through chromedp.
//
// Every element returned to the engine is tagged with a data-masonry-id
// attribute so later calls can find it again without holding remote object
// handles. Geometry is the element's bounding client rectangle shifted by
// the page scroll offset, giving document coordinates. Positions are
// written to style.left and style.top.
//
// [masonry.Host] methods take no context, so a [Page] is bound to the
// context of the browser tab it drives. Each evaluation runs under
// [WithTimeout].
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/geometry"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// IDAttribute is the attribute used to tag elements handed to the engine.
const IDAttribute = "data-masonry-id"

// DefaultTimeout bounds a single script evaluation.
const DefaultTimeout = 10 * time.Second

// Evaluator runs a JavaScript expression in the page and decodes its
// result into out. out may be nil.
type Evaluator interface {
	Evaluate(ctx context.Context, expression string, out any) error
}

// ChromeEvaluator evaluates expressions in the chromedp tab bound to the
// context passed to Evaluate.
type ChromeEvaluator struct{}

// Evaluate implements [Evaluator].
func (ChromeEvaluator) Evaluate(ctx context.Context, expression string, out any) error {
	return chromedp.Run(ctx, chromedp.Evaluate(expression, out))
}

// Element is a tagged element of a [Page].
type Element struct {
	page *Page
	id   string
}

// ID returns the element's data-masonry-id value.
func (e *Element) ID() string { return e.id }

// Selector returns a CSS selector matching exactly this element.
func (e *Element) Selector() string {
	return fmt.Sprintf(`[%s=%q]`, IDAttribute, e.id)
}

// Option configures a [Page].
type Option func(*Page)

// WithEvaluator replaces the chromedp evaluator.
func WithEvaluator(ev Evaluator) Option { return func(p *Page) { p.eval = ev } }

// WithTimeout bounds each evaluation.
func WithTimeout(d time.Duration) Option { return func(p *Page) { p.timeout = d } }

// Page is a browser tab acting as a layout host.
type Page struct {
	ctx     context.Context
	eval    Evaluator
	timeout time.Duration

	mu       sync.Mutex
	elements map[string]*Element
}

var _ masonry.Host = (*Page)(nil)

// NewPage binds a host to ctx, which must carry a chromedp tab unless a
// custom evaluator is supplied.
func NewPage(ctx context.Context, opts ...Option) *Page {
	p := &Page{
		ctx:      ctx,
		eval:     ChromeEvaluator{},
		timeout:  DefaultTimeout,
		elements: make(map[string]*Element),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Page) run(expression string, out any) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	if err := p.eval.Evaluate(ctx, expression, out); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return merrors.Wrap(merrors.ErrCodeTimeout, err, "evaluation timed out after %s", p.timeout)
		}
		return err
	}
	return nil
}

func (p *Page) wrap(ids []string) []masonry.Element {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]masonry.Element, len(ids))
	for i, id := range ids {
		el, ok := p.elements[id]
		if !ok {
			el = &Element{page: p, id: id}
			p.elements[id] = el
		}
		out[i] = el
	}
	return out
}

// QueryAll tags and returns the elements matching selector. Selectors
// starting with "/" or "(" are XPath.
func (p *Page) QueryAll(selector string) ([]masonry.Element, error) {
	var ids []string
	if err := p.run(queryScript(selector), &ids); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return p.wrap(ids), nil
}

// Children tags and returns the element children of container.
func (p *Page) Children(container masonry.Element) ([]masonry.Element, error) {
	el, err := p.own(container)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := p.run(childrenScript(el.id), &ids); err != nil {
		return nil, fmt.Errorf("children of %s: %w", el.id, err)
	}
	return p.wrap(ids), nil
}

type rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Geometry returns the element's rectangle in document coordinates.
func (p *Page) Geometry(e masonry.Element) (geometry.Rectangle, error) {
	el, err := p.own(e)
	if err != nil {
		return geometry.Rectangle{}, err
	}
	var r rect
	if err := p.run(geometryScript(el.id), &r); err != nil {
		return geometry.Rectangle{}, fmt.Errorf("geometry of %s: %w", el.id, err)
	}
	return geometry.NewRectangle(r.X, r.Y, r.Width, r.Height), nil
}

// Viewport returns the window's inner size.
func (p *Page) Viewport() (geometry.Rectangle, error) {
	var r rect
	if err := p.run(viewportScript, &r); err != nil {
		return geometry.Rectangle{}, fmt.Errorf("viewport: %w", err)
	}
	return geometry.NewRectangle(0, 0, r.Width, r.Height), nil
}

// SetPosition writes style.left and style.top.
func (p *Page) SetPosition(e masonry.Element, x, y float64) error {
	el, err := p.own(e)
	if err != nil {
		return err
	}
	var ok bool
	if err := p.run(positionScript(el.id, x, y), &ok); err != nil {
		return fmt.Errorf("set position of %s: %w", el.id, err)
	}
	if !ok {
		return fmt.Errorf("element %s is no longer attached", el.id)
	}
	return nil
}

// Screenshot captures the full page as PNG.
func (p *Page) Screenshot(quality int) ([]byte, error) {
	var buf []byte
	if err := chromedp.Run(p.ctx, chromedp.FullScreenshot(&buf, quality)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return buf, nil
}

func (p *Page) own(e masonry.Element) (*Element, error) {
	el, ok := e.(*Element)
	if !ok || el == nil {
		return nil, fmt.Errorf("element %v does not belong to a browser page", e)
	}
	if el.page != p {
		return nil, fmt.Errorf("element %q belongs to another page", el.id)
	}
	return el, nil
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func isXPath(selector string) bool {
	s := strings.TrimSpace(selector)
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(")
}

// tagFunc assigns sequential ids to untagged elements and returns all ids.
const tagFunc = `const tag = (els) => {
	let seq = window.__masonrySeq || 0;
	const ids = [];
	for (const el of els) {
		if (!(el instanceof HTMLElement)) continue;
		if (!el.dataset.masonryId) el.dataset.masonryId = "m" + (++seq);
		ids.push(el.dataset.masonryId);
	}
	window.__masonrySeq = seq;
	return ids;
};`

func lookupExpr(id string) string {
	return fmt.Sprintf(`document.querySelector(%s)`, jsString(fmt.Sprintf(`[%s=%q]`, IDAttribute, id)))
}

func queryScript(selector string) string {
	find := fmt.Sprintf(`document.querySelectorAll(%s)`, jsString(selector))
	if isXPath(selector) {
		find = fmt.Sprintf(`(() => {
	const snap = document.evaluate(%s, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
	const out = [];
	for (let i = 0; i < snap.snapshotLength; i++) out.push(snap.snapshotItem(i));
	return out;
})()`, jsString(selector))
	}
	return fmt.Sprintf(`(() => { %s return tag(%s); })()`, tagFunc, find)
}

func childrenScript(id string) string {
	return fmt.Sprintf(`(() => { %s const el = %s; return el ? tag(el.children) : []; })()`, tagFunc, lookupExpr(id))
}

func geometryScript(id string) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) throw new Error("element detached");
	const r = el.getBoundingClientRect();
	const sx = window.scrollX || document.documentElement.scrollLeft;
	const sy = window.scrollY || document.documentElement.scrollTop;
	return {x: r.left + sx, y: r.top + sy, width: r.width, height: r.height};
})()`, lookupExpr(id))
}

const viewportScript = `({x: 0, y: 0, width: window.innerWidth, height: window.innerHeight})`

func positionScript(id string, x, y float64) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) return false;
	el.style.left = "%spx";
	el.style.top = "%spx";
	return true;
})()`, lookupExpr(id), num(x), num(y))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
