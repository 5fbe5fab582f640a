package masonry

import (
	"fmt"

	"github.com/charmbracelet/log"

	merrors "github.com/matzehuels/masonry/pkg/errors"
)

// Default gaps between columns and rows, in host units.
const (
	DefaultColumnGap = 12.0
	DefaultRowGap    = 12.0
)

// Config is the resolved numeric configuration of an engine.
type Config struct {
	ColumnWidth float64 `json:"column_width"`
	ColumnGap   float64 `json:"column_gap"`
	RowGap      float64 `json:"row_gap"`
}

// Source selects the elements that become bricks. It is a closed set:
// use [Container], [Elements] or [Matching].
type Source interface {
	// resolve returns the container (nil when there is none) and the
	// elements to lay out, in order.
	resolve(h Host) (Element, []Element, error)
	fmt.Stringer
}

type containerSource string

// Container lays out the direct children of the first element matching
// selector. The container also becomes the default boundary.
func Container(selector string) Source { return containerSource(selector) }

func (s containerSource) String() string { return "container " + string(s) }

func (s containerSource) resolve(h Host) (Element, []Element, error) {
	container, err := first(h, string(s), "container")
	if err != nil {
		return nil, nil, err
	}
	children, err := h.Children(container)
	if err != nil {
		return nil, nil, merrors.Wrap(merrors.ErrCodeHost, err, "read children of %s", container.ID())
	}
	return container, children, nil
}

type elementsSource []Element

// Elements lays out the given elements in order.
func Elements(els ...Element) Source { return elementsSource(els) }

func (s elementsSource) String() string { return fmt.Sprintf("%d elements", len(s)) }

func (s elementsSource) resolve(Host) (Element, []Element, error) {
	return nil, []Element(s), nil
}

type matchingSource string

// Matching lays out every element matching selector, in document order.
func Matching(selector string) Source { return matchingSource(selector) }

func (s matchingSource) String() string { return "elements " + string(s) }

func (s matchingSource) resolve(h Host) (Element, []Element, error) {
	if err := merrors.ValidateSelector(string(s)); err != nil {
		return nil, nil, err
	}
	els, err := h.QueryAll(string(s))
	if err != nil {
		return nil, nil, merrors.Wrap(merrors.ErrCodeHost, err, "query %q", string(s))
	}
	return nil, els, nil
}

// first returns the first element matching selector. role names the
// selector in error messages.
func first(h Host, selector, role string) (Element, error) {
	if err := merrors.ValidateSelector(selector); err != nil {
		return nil, err
	}
	els, err := h.QueryAll(selector)
	if err != nil {
		return nil, merrors.Wrap(merrors.ErrCodeHost, err, "query %s %q", role, selector)
	}
	if len(els) == 0 {
		return nil, merrors.New(merrors.ErrCodeInvalidConfiguration, "%s %q matched no element", role, selector)
	}
	return els[0], nil
}

// Placement reports where a brick was committed during a layout pass.
type Placement struct {
	Index   int     `json:"index"`
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Wrapped bool    `json:"wrapped,omitempty"` // x wrapped back to the boundary's left edge
	Stacked bool    `json:"stacked,omitempty"` // y was pushed below a brick in the same column
}

// Observer is called once per brick, in order, as a layout pass commits it.
type Observer func(Placement)

type settings struct {
	columnWidth   float64
	columnWidthOf string
	columnGap     float64
	rowGap        float64
	boundary      string
	logger        *log.Logger
	observer      Observer
}

// Option configures an [Engine].
type Option func(*settings)

// WithColumnWidth sets the column width. It is required unless
// [WithColumnWidthOf] is used, and must be positive.
func WithColumnWidth(w float64) Option {
	return func(s *settings) { s.columnWidth = w; s.columnWidthOf = "" }
}

// WithColumnWidthOf takes the column width from the width of the first
// element matching selector.
func WithColumnWidthOf(selector string) Option {
	return func(s *settings) { s.columnWidthOf = selector }
}

// WithColumnGap sets the horizontal gap between columns (default 12).
func WithColumnGap(g float64) Option { return func(s *settings) { s.columnGap = g } }

// WithRowGap sets the vertical gap between stacked bricks (default 12).
func WithRowGap(g float64) Option { return func(s *settings) { s.rowGap = g } }

// WithBoundary uses the first element matching selector as the layout
// boundary instead of the container or viewport.
func WithBoundary(selector string) Option { return func(s *settings) { s.boundary = selector } }

// WithLogger sets the logger used for per-brick debug output.
func WithLogger(l *log.Logger) Option { return func(s *settings) { s.logger = l } }

// WithObserver registers fn to receive every placement.
func WithObserver(fn Observer) Option { return func(s *settings) { s.observer = fn } }
