package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/masonry/pkg/masonry"
)

// DOTOptions configures Graphviz output.
type DOTOptions struct {
	// Labels are drawn inside bricks, keyed by element ID. Bricks without a
	// label show their ID.
	Labels map[string]string
	// Flow connects consecutive bricks with dashed edges to show reading
	// order.
	Flow bool
}

// ToDOT converts a layout to a Graphviz graph for the neato engine. Every
// brick is a fixed-size box pinned at its centre; y is flipped because
// Graphviz grows upwards.
func ToDOT(l masonry.Layout, opts DOTOptions) string {
	bottom := l.Boundary.Y + l.Height()

	var buf bytes.Buffer
	buf.WriteString("digraph masonry {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=12];\n")
	buf.WriteString("  edge [style=dashed, color=grey, arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, p := range l.Placements {
		label := p.ID
		if s, ok := opts.Labels[p.ID]; ok && s != "" {
			label = s
		}
		cx := p.X - l.Boundary.X + p.Width/2
		cy := bottom - (p.Y + p.Height/2)
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.2f,%.2f!\", width=%.4f, height=%.4f];\n",
			p.ID, label, cx, cy, p.Width/72, p.Height/72)
	}

	if opts.Flow && len(l.Placements) > 1 {
		buf.WriteString("\n")
		for i := 1; i < len(l.Placements); i++ {
			fmt.Fprintf(&buf, "  %q -> %q;\n", l.Placements[i-1].ID, l.Placements[i].ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	dot DOTOptions
}

// WithPNGLabels sets the labels drawn in each brick.
func WithPNGLabels(labels map[string]string) PNGOption {
	return func(r *pngRenderer) { r.dot.Labels = labels }
}

// WithPNGFlow draws reading-order edges between consecutive bricks.
func WithPNGFlow() PNGOption { return func(r *pngRenderer) { r.dot.Flow = true } }

// RenderPNG renders the layout as PNG with Graphviz.
func RenderPNG(ctx context.Context, l masonry.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return renderDOT(ctx, ToDOT(l, r.dot), graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
