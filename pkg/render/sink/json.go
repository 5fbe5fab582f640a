package sink

import (
	"encoding/json"

	"github.com/matzehuels/masonry/pkg/masonry"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	labels map[string]string
	style  string
}

// WithJSONLabels attaches element labels to the exported bricks.
func WithJSONLabels(labels map[string]string) JSONOption {
	return func(r *jsonRenderer) { r.labels = labels }
}

// WithJSONStyle records the style name in the output for round-trip rendering.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

type jsonOutput struct {
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Boundary masonry.Boundary `json:"boundary"`
	Config   masonry.Config   `json:"config"`
	Style    string           `json:"style,omitempty"`
	Columns  []float64        `json:"columns"`
	Bricks   []jsonBrick      `json:"bricks"`
}

type jsonBrick struct {
	ID      string  `json:"id"`
	Label   string  `json:"label,omitempty"`
	Index   int     `json:"index"`
	Column  int     `json:"column"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Wrapped bool    `json:"wrapped,omitempty"`
	Stacked bool    `json:"stacked,omitempty"`
}

// RenderJSON exports the layout as a pretty-printed JSON document with
// bricks in input order. It does not modify l and is safe to call
// concurrently.
func RenderJSON(l masonry.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:    l.Width(),
		Height:   l.Height(),
		Boundary: l.Boundary,
		Config:   l.Config,
		Style:    r.style,
		Columns:  sortedColumns(l),
		Bricks:   make([]jsonBrick, 0, len(l.Placements)),
	}
	if out.Columns == nil {
		out.Columns = []float64{}
	}
	for _, b := range buildBlocks(l, r.labels) {
		out.Bricks = append(out.Bricks, jsonBrick{
			ID:      b.ID,
			Label:   b.Label,
			Index:   b.Index,
			Column:  b.Column,
			X:       b.X,
			Y:       b.Y,
			Width:   b.W,
			Height:  b.H,
			Wrapped: b.Wrapped,
			Stacked: b.Stacked,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
