package styles

import (
	"bytes"
	"fmt"
)

// Simple draws white boxes with a dark stroke and centred labels.
type Simple struct{}

func (Simple) RenderDefs(*bytes.Buffer) {}

func (Simple) RenderBlock(buf *bytes.Buffer, b Block) {
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" data-index="%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="white" stroke="#333" stroke-width="2"/>`+"\n",
		EscapeXML(b.ID), b.Index, b.X, b.Y, b.W, b.H)
}

func (Simple) RenderText(buf *bytes.Buffer, b Block) {
	renderLabel(buf, b, "#333")
}

func (Simple) RenderGuide(buf *bytes.Buffer, g Guide) {
	fmt.Fprintf(buf, `  <rect class="guide" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#f4f4f4"/>`+"\n",
		g.X, g.Y1, g.Width, g.Y2-g.Y1)
}

func renderLabel(buf *bytes.Buffer, b Block, color string) {
	if b.Label == "" {
		return
	}
	size := FontSize(b)
	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
		EscapeXML(b.ID), b.CX, b.CY, size, color, EscapeXML(TruncateLabel(b)))
}
