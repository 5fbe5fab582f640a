package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

// DefaultMargin is the space left around the canvas.
const DefaultMargin = 16.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  styles.Style
	labels map[string]string
	guides bool
	margin float64
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithGuides() SVGOption              { return func(r *svgRenderer) { r.guides = true } }
func WithMargin(m float64) SVGOption     { return func(r *svgRenderer) { r.margin = m } }
func WithLabels(labels map[string]string) SVGOption {
	return func(r *svgRenderer) { r.labels = labels }
}

// RenderSVG draws every placement of l. The canvas covers the boundary
// width and the full height of the placed bricks.
func RenderSVG(l masonry.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}, margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := l.Width()+2*r.margin, l.Height()+2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	r.style.RenderDefs(&buf)
	fmt.Fprintf(&buf, `  <g transform="translate(%.2f %.2f)">`+"\n", r.margin-l.Boundary.X, r.margin-l.Boundary.Y)

	if r.guides {
		top, bottom := l.Boundary.Y, l.Boundary.Y+l.Height()
		for _, x := range sortedColumns(l) {
			r.style.RenderGuide(&buf, styles.Guide{X: x, Y1: top, Y2: bottom, Width: l.Config.ColumnWidth})
		}
	}

	blocks := buildBlocks(l, r.labels)
	for _, b := range blocks {
		r.style.RenderBlock(&buf, b)
	}
	for _, b := range blocks {
		r.style.RenderText(&buf, b)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}
