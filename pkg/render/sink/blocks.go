package sink

import (
	"slices"

	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

// buildBlocks converts placements to style blocks in input order. Column
// indices follow the left-to-right order of distinct x offsets.
func buildBlocks(l masonry.Layout, labels map[string]string) []styles.Block {
	cols := sortedColumns(l)

	blocks := make([]styles.Block, 0, len(l.Placements))
	for _, p := range l.Placements {
		col, _ := slices.BinarySearch(cols, p.X)
		blocks = append(blocks, styles.Block{
			ID:      p.ID,
			Label:   labels[p.ID],
			Index:   p.Index,
			Column:  col,
			X:       p.X,
			Y:       p.Y,
			W:       p.Width,
			H:       p.Height,
			CX:      p.X + p.Width/2,
			CY:      p.Y + p.Height/2,
			Wrapped: p.Wrapped,
			Stacked: p.Stacked,
		})
	}
	return blocks
}

// sortedColumns returns the distinct column offsets, left to right.
func sortedColumns(l masonry.Layout) []float64 {
	cols := l.Columns()
	slices.Sort(cols)
	return cols
}
