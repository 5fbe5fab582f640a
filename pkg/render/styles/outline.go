package styles

import (
	"bytes"
	"fmt"
)

// palette tints bricks by column.
var palette = []string{"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948", "#b07aa1", "#ff9da7"}

// Outline draws dashed, column-tinted outlines and marks wrapped and
// stacked bricks. It is meant for inspecting placement decisions.
type Outline struct{}

func (Outline) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <style>
    .block:hover { fill-opacity: 0.3; }
    .wrapped, .stacked { pointer-events: none; }
  </style>
`)
}

func (Outline) RenderBlock(buf *bytes.Buffer, b Block) {
	color := palette[b.Column%len(palette)]
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" data-index="%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.12" stroke="%s" stroke-width="1.5" stroke-dasharray="6 3"/>`+"\n",
		EscapeXML(b.ID), b.Index, b.X, b.Y, b.W, b.H, color, color)
	if b.Wrapped {
		fmt.Fprintf(buf, `  <circle class="wrapped" cx="%.2f" cy="%.2f" r="4" fill="#e15759"/>`+"\n", b.X+8, b.Y+8)
	}
	if b.Stacked {
		fmt.Fprintf(buf, `  <line class="stacked" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="3"/>`+"\n",
			b.X, b.Y, b.X+b.W, b.Y, color)
	}
}

func (Outline) RenderText(buf *bytes.Buffer, b Block) {
	if b.Label == "" {
		b.Label = fmt.Sprintf("#%d", b.Index)
	}
	renderLabel(buf, b, palette[b.Column%len(palette)])
}

func (Outline) RenderGuide(buf *bytes.Buffer, g Guide) {
	fmt.Fprintf(buf, `  <line class="guide" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#bbb" stroke-dasharray="2 4"/>`+"\n",
		g.X, g.Y1, g.X, g.Y2)
}
