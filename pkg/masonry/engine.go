package masonry

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/geometry"
)

// Boundary is the region layout offsets are computed in.
type Boundary struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Viewport bool    `json:"viewport,omitempty"` // derived from the host viewport
}

// Engine lays out the bricks of one host. Build it with [New].
type Engine struct {
	host     Host
	registry *Registry
	tracker  columnTracker
	config   Config
	boundary Boundary
	logger   *log.Logger
	observer Observer

	placements []Placement // last completed pass
}

// New resolves src against host, reads every brick's geometry and returns
// an engine ready to lay them out.
//
// New fails with [merrors.ErrCodeInvalidConfiguration] when the resolved
// column width is not positive or when a selector (container, boundary,
// column width) matches nothing. Host failures are wrapped with
// [merrors.ErrCodeHost].
func New(host Host, src Source, opts ...Option) (*Engine, error) {
	s := settings{columnGap: DefaultColumnGap, rowGap: DefaultRowGap}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if src == nil {
		return nil, merrors.New(merrors.ErrCodeInvalidConfiguration, "no brick source given")
	}

	container, els, err := src.resolve(host)
	if err != nil {
		return nil, err
	}

	columnWidth, err := resolveColumnWidth(host, s)
	if err != nil {
		return nil, err
	}
	if !(columnWidth > 0) || math.IsInf(columnWidth, 0) {
		return nil, merrors.New(merrors.ErrCodeInvalidConfiguration, "invalid column width %g", columnWidth)
	}

	boundary, err := resolveBoundary(host, container, s.boundary, columnWidth)
	if err != nil {
		return nil, err
	}

	registry, err := NewRegistry(host, els)
	if err != nil {
		return nil, merrors.Wrap(merrors.ErrCodeHost, err, "read brick geometry")
	}

	cfg := Config{ColumnWidth: columnWidth, ColumnGap: s.columnGap, RowGap: s.rowGap}
	s.logger.Debug("masonry engine ready",
		"source", src.String(),
		"bricks", registry.Len(),
		"column_width", cfg.ColumnWidth,
		"boundary_width", boundary.Width)

	return &Engine{
		host:     host,
		registry: registry,
		tracker:  columnTracker{registry: registry, rowGap: cfg.RowGap},
		config:   cfg,
		boundary: boundary,
		logger:   s.logger,
		observer: s.observer,
	}, nil
}

func resolveColumnWidth(h Host, s settings) (float64, error) {
	if s.columnWidthOf == "" {
		return s.columnWidth, nil
	}
	el, err := first(h, s.columnWidthOf, "column width")
	if err != nil {
		return 0, err
	}
	rect, err := h.Geometry(el)
	if err != nil {
		return 0, merrors.Wrap(merrors.ErrCodeHost, err, "read geometry of %s", el.ID())
	}
	return rect.Width(), nil
}

// resolveBoundary picks the explicit boundary, then the container, then the
// viewport. The viewport is anchored at (0, 0) and gives up one column of
// width so the last column stays on screen.
func resolveBoundary(h Host, container Element, selector string, columnWidth float64) (Boundary, error) {
	el := container
	if selector != "" {
		found, err := first(h, selector, "boundary")
		if err != nil {
			return Boundary{}, err
		}
		el = found
	}

	if el != nil {
		rect, err := h.Geometry(el)
		if err != nil {
			return Boundary{}, merrors.Wrap(merrors.ErrCodeHost, err, "read boundary geometry of %s", el.ID())
		}
		return Boundary{X: rect.Left(), Y: rect.Top(), Width: rect.Width()}, nil
	}

	vp, err := h.Viewport()
	if err != nil {
		return Boundary{}, merrors.Wrap(merrors.ErrCodeHost, err, "read viewport")
	}
	return Boundary{Width: vp.Width() - columnWidth, Viewport: true}, nil
}

// Config returns the resolved configuration.
func (e *Engine) Config() Config { return e.config }

// Boundary returns the resolved boundary.
func (e *Engine) Boundary() Boundary { return e.boundary }

// Len returns the number of bricks.
func (e *Engine) Len() int { return e.registry.Len() }

// Bricks returns a copy of the bricks in input order.
func (e *Engine) Bricks() []Brick { return e.registry.Bricks() }

// Layout places every brick in input order and writes each position back to
// the host. The pass always runs to completion; host write failures are
// collected and returned together once it ends.
func (e *Engine) Layout() error {
	var errs []error
	placements := make([]Placement, 0, e.registry.Len())
	for i := range e.registry.Len() {
		p := e.place(i)
		placements = append(placements, p)
		b := e.registry.At(i)

		if err := e.host.SetPosition(b.Element, p.X, p.Y); err != nil {
			errs = append(errs, merrors.Wrap(merrors.ErrCodeHost, err, "set position of %s", p.ID))
		}

		e.logger.Debug("placed brick",
			"index", p.Index,
			"id", p.ID,
			"x", p.X,
			"y", p.Y,
			"wrapped", p.Wrapped,
			"stacked", p.Stacked)

		if e.observer != nil {
			e.observer(p)
		}
	}
	e.placements = placements
	return errors.Join(errs...)
}

// place computes and commits the position of brick i.
func (e *Engine) place(i int) Placement {
	if i == 0 {
		e.registry.Place(0, e.boundary.X, e.boundary.Y)
		return e.placement(0, false, false)
	}

	x := e.nextColumn(e.registry.At(i - 1).Bounds())
	wrapped := false
	if x >= e.boundary.Width {
		x, wrapped = e.boundary.X, true
	}

	y, stacked := e.tracker.offset(i, x, e.boundary.Y)
	e.registry.Place(i, x, y)
	return e.placement(i, wrapped, stacked)
}

// nextColumn returns the candidate x for the brick following prev. A right
// edge still inside the first column advances to the second column slot;
// anything further continues at that edge.
func (e *Engine) nextColumn(prev geometry.Rectangle) float64 {
	edge := prev.Right() + e.config.ColumnGap
	if edge < e.config.ColumnWidth {
		return e.config.ColumnWidth + e.config.ColumnGap
	}
	return edge
}

func (e *Engine) placement(i int, wrapped, stacked bool) Placement {
	b := e.registry.At(i)
	r := b.Bounds()
	return Placement{
		Index:   i,
		ID:      b.ID(),
		X:       r.Left(),
		Y:       r.Top(),
		Width:   r.Width(),
		Height:  r.Height(),
		Wrapped: wrapped,
		Stacked: stacked,
	}
}
