// Package styles defines how bricks are drawn in SVG output.
//
// A [Style] writes SVG fragments into a buffer. Two styles ship with
// masonry: [Simple] (white boxes with a dark stroke) and [Outline] (dashed
// outlines tinted by column, useful for debugging placement). Use
// [ByName] to resolve a style from user input.
package styles

import (
	"bytes"
	"slices"

	merrors "github.com/matzehuels/masonry/pkg/errors"
)

// Style defines the visual appearance of rendered bricks.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, patterns, markers).
	RenderDefs(buf *bytes.Buffer)
	// RenderBlock writes the SVG for a single brick.
	RenderBlock(buf *bytes.Buffer, b Block)
	// RenderText writes the SVG for a brick's label.
	RenderText(buf *bytes.Buffer, b Block)
	// RenderGuide writes a vertical column guide at x.
	RenderGuide(buf *bytes.Buffer, g Guide)
}

// Block contains all data needed to render a single brick.
type Block struct {
	ID         string  // Element identifier
	Label      string  // Display text
	Index      int     // Position in input order
	Column     int     // Index of the brick's column, left to right
	X, Y, W, H float64 // Position and dimensions
	CX, CY     float64 // Center coordinates (for text)
	Wrapped    bool    // x wrapped back to the boundary edge
	Stacked    bool    // y was pushed below another brick
}

// Guide marks a column on the canvas.
type Guide struct {
	X, Y1, Y2 float64
	Width     float64 // column width, drawn as a band
}

// Style names accepted by [ByName].
const (
	NameSimple  = "simple"
	NameOutline = "outline"
)

// Names returns the known style names.
func Names() []string { return []string{NameSimple, NameOutline} }

// ByName resolves a style name. The empty string selects [Simple].
func ByName(name string) (Style, error) {
	switch name {
	case "", NameSimple:
		return Simple{}, nil
	case NameOutline:
		return Outline{}, nil
	}
	return nil, merrors.New(merrors.ErrCodeInvalidStyle, "unknown style %q (want one of %v)", name, Names())
}

// Valid reports whether name is a known style.
func Valid(name string) bool { return name == "" || slices.Contains(Names(), name) }
