package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	mio "github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// previewCommand creates the preview command, which replays a layout in
// the terminal one brick at a time.
func (c *CLI) previewCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "preview [scene.toml|scene.json]",
		Short: "Replay a scene's layout brick by brick in the terminal",
		Long: `Replay a scene's layout brick by brick in the terminal.

Keys:
  → l space   place the next brick
  ← h         take the last brick back
  home g      show no bricks
  end G       show every brick
  q esc       quit`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSceneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			c.layoutOverrides(cmd, &opts)
			return c.runPreview(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd)

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	scene, err := mio.ImportScene(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	l, err := runner.Layout(ctx, scene, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if len(l.Placements) == 0 {
		printWarning("Nothing to preview: the scene has no bricks")
		return nil
	}

	p := tea.NewProgram(NewPreviewModel(l, scene.Labels()), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// PreviewModel - Brick-by-brick layout replay
// =============================================================================

var (
	previewPalette = []lipgloss.Color{"36", "75", "35", "220", "167", "141", "209", "110"}
	previewCurrent = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	previewEmpty   = lipgloss.NewStyle().Foreground(colorDim)
	previewFrame   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// glyphs label bricks on the canvas, cycling for long layouts.
const glyphs = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PreviewModel is the bubbletea model that steps through a layout's
// placements in commit order.
type PreviewModel struct {
	Layout masonry.Layout
	Labels map[string]string
	// Step is the number of placements shown.
	Step int
	// Width and Height are the terminal size.
	Width, Height int
}

// NewPreviewModel starts with the first brick placed.
func NewPreviewModel(l masonry.Layout, labels map[string]string) PreviewModel {
	return PreviewModel{
		Layout: l,
		Labels: labels,
		Step:   min(1, len(l.Placements)),
		Width:  80,
		Height: 24,
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", " ":
			if m.Step < len(m.Layout.Placements) {
				m.Step++
			}
		case "left", "h":
			if m.Step > 0 {
				m.Step--
			}
		case "home", "g":
			m.Step = 0
		case "end", "G":
			m.Step = len(m.Layout.Placements)
		}
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Masonry preview"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("[%d/%d]", m.Step, len(m.Layout.Placements))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ step  home/end jump  q quit"))
	b.WriteString("\n")

	b.WriteString(previewFrame.Render(strings.Join(m.canvas(), "\n")))
	b.WriteString("\n")
	b.WriteString(m.detail())
	return b.String()
}

// detail describes the most recently placed brick.
func (m PreviewModel) detail() string {
	if m.Step == 0 {
		return StyleDim.Render("no bricks placed")
	}
	p := m.Layout.Placements[m.Step-1]
	name := p.ID
	if label := m.Labels[p.ID]; label != "" {
		name = fmt.Sprintf("%s (%s)", label, p.ID)
	}
	var flags []string
	if p.Wrapped {
		flags = append(flags, "wrapped")
	}
	if p.Stacked {
		flags = append(flags, "stacked")
	}
	line := fmt.Sprintf("%s %s  x=%g y=%g  %g×%g",
		previewCurrent.Render(string(glyph(p.Index))), StyleHighlight.Render(name), p.X, p.Y, p.Width, p.Height)
	if len(flags) > 0 {
		line += "  " + StyleWarning.Render(strings.Join(flags, " "))
	}
	return line
}

// canvas draws the placed bricks scaled into a character grid. Terminal
// cells are about twice as tall as wide, so rows get half the scale.
func (m PreviewModel) canvas() []string {
	cols := max(m.Width-4, 10)
	maxRows := max(m.Height-7, 4)

	width, height := m.Layout.Width(), m.Layout.Height()
	if width <= 0 {
		width = 1
	}
	scale := float64(cols) / width
	if height > 0 && height*scale/2 > float64(maxRows) {
		scale = 2 * float64(maxRows) / height
		cols = max(int(math.Ceil(width*scale)), 1)
	}
	rows := max(int(math.Ceil(height*scale/2)), 1)

	owner := make([][]int, rows)
	for r := range owner {
		owner[r] = make([]int, cols)
		for c := range owner[r] {
			owner[r][c] = -1
		}
	}

	bx, by := m.Layout.Boundary.X, m.Layout.Boundary.Y
	for i := 0; i < m.Step; i++ {
		p := m.Layout.Placements[i]
		x0, x1 := cellSpan(p.X-bx, p.Width, scale, cols)
		y0, y1 := cellSpan(p.Y-by, p.Height, scale/2, rows)
		for r := y0; r < y1; r++ {
			for c := x0; c < x1; c++ {
				owner[r][c] = i
			}
		}
	}

	lines := make([]string, rows)
	for r := range owner {
		lines[r] = m.renderRow(owner, r)
	}
	return lines
}

// renderRow styles runs of cells that belong to the same brick. The first
// cell of each brick shows its glyph.
func (m PreviewModel) renderRow(owner [][]int, r int) string {
	row := owner[r]
	var b strings.Builder
	for c := 0; c < len(row); {
		id := row[c]
		end := c
		for end < len(row) && row[end] == id {
			end++
		}
		if id < 0 {
			b.WriteString(previewEmpty.Render(strings.Repeat("·", end-c)))
			c = end
			continue
		}
		run := []rune(strings.Repeat("█", end-c))
		if isTopLeft(owner, r, c, id) {
			run[0] = glyph(id)
		}
		style := lipgloss.NewStyle().Foreground(previewPalette[id%len(previewPalette)])
		if id == m.Step-1 {
			style = previewCurrent
		}
		b.WriteString(style.Render(string(run)))
		c = end
	}
	return b.String()
}

func isTopLeft(owner [][]int, r, c, id int) bool {
	return (r == 0 || owner[r-1][c] != id) && (c == 0 || owner[r][c-1] != id)
}

// cellSpan maps a span [pos, pos+size) to grid cells, always covering at
// least one cell.
func cellSpan(pos, size, scale float64, limit int) (int, int) {
	start := min(max(int(math.Floor(pos*scale)), 0), limit-1)
	end := min(max(int(math.Floor((pos+size)*scale)), start+1), limit)
	return start, end
}

func glyph(i int) rune {
	return rune(glyphs[i%len(glyphs)])
}
