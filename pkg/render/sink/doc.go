// Package sink provides output format renderers for masonry layouts.
//
// # Overview
//
// A "sink" transforms a computed [masonry.Layout] into a final output
// format:
//
//   - SVG: One rect per brick, drawn by a [styles.Style]
//   - JSON: Brick positions plus layout metadata for external tools
//   - DOT: A Graphviz graph with every brick pinned at its position
//   - PNG: The DOT graph rendered by Graphviz (neato)
//   - PDF: The SVG converted by rsvg-convert
//
// # SVG Output
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithStyle(styles.Outline{}),
//	    sink.WithLabels(scene.Labels()),
//	    sink.WithGuides(),
//	)
//
// # SVG Options
//
//   - [WithStyle]: Visual style ([styles.Simple] by default)
//   - [WithLabels]: Text drawn inside bricks, keyed by element ID
//   - [WithGuides]: Shade the columns in use behind the bricks
//   - [WithMargin]: Space around the canvas (default 16)
//
// # PNG and PDF Output
//
// [RenderPNG] runs Graphviz in-process through go-graphviz, so it needs no
// external tools. [RenderPDF] converts the SVG with [render.ToPDF], which
// requires librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [render.ToPDF]: github.com/matzehuels/masonry/pkg/render.ToPDF
// [styles.Style]: github.com/matzehuels/masonry/pkg/render/styles.Style
// [styles.Simple]: github.com/matzehuels/masonry/pkg/render/styles.Simple
package sink
