// Package render turns masonry layouts into files.
//
// # Overview
//
// This package holds format conversion shared by the sinks:
//
//   - [ToPDF] converts SVG to PDF with the external rsvg-convert tool
//   - [ToPNG] converts SVG to PNG the same way, at a scale factor
//
// The renderers themselves live in subpackages:
//
//   - [sink]: SVG, JSON, DOT, PNG (Graphviz) and PDF output
//   - [styles]: Visual styles for SVG bricks ("simple", "outline")
//
//	svg := sink.RenderSVG(layout, sink.WithStyle(styles.Outline{}))
//	pdf, err := render.ToPDF(ctx, svg)
//
// [sink]: github.com/matzehuels/masonry/pkg/render/sink
// [styles]: github.com/matzehuels/masonry/pkg/render/styles
package render
