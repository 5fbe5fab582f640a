package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/host/htmldoc"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// hostFlags select bricks on a document host (static HTML or a live page).
type hostFlags struct {
	container     string
	elements      string
	columnWidthOf string
	boundary      string
}

func (f *hostFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.container, "container", "", "lay out the children of this element (CSS or XPath)")
	cmd.Flags().StringVar(&f.elements, "elements", "", "lay out every element matching this selector")
	cmd.Flags().StringVar(&f.columnWidthOf, "column-width-of", "", "take the column width from this element")
	cmd.Flags().StringVar(&f.boundary, "boundary", "", "wrap at the width of this element instead of the container or viewport")
	cmd.Flags().Float64("column-width", 0, "column width (default from config, 240)")
	cmd.Flags().Float64("column-gap", 0, "gap between columns (default from config, 12)")
	cmd.Flags().Float64("row-gap", 0, "gap between stacked bricks (default from config, 12)")
	cmd.MarkFlagsMutuallyExclusive("container", "elements")
	cmd.MarkFlagsMutuallyExclusive("column-width", "column-width-of")
}

// source returns the brick source. Exactly one of --container and
// --elements must be set.
func (f *hostFlags) source() (masonry.Source, error) {
	switch {
	case f.container != "":
		return masonry.Container(f.container), nil
	case f.elements != "":
		return masonry.Matching(f.elements), nil
	}
	return nil, merrors.New(merrors.ErrCodeInvalidInput, "one of --container or --elements is required")
}

// hostOptions builds engine options from flags, config and defaults.
func (c *CLI) hostOptions(cmd *cobra.Command, f *hostFlags) []masonry.Option {
	opts := []masonry.Option{
		masonry.WithColumnGap(c.flagFloat(cmd, "column-gap", keyColumnGap)),
		masonry.WithRowGap(c.flagFloat(cmd, "row-gap", keyRowGap)),
		masonry.WithLogger(c.Logger),
	}
	if f.columnWidthOf != "" {
		opts = append(opts, masonry.WithColumnWidthOf(f.columnWidthOf))
	} else {
		opts = append(opts, masonry.WithColumnWidth(c.flagFloat(cmd, "column-width", keyColumnWidth)))
	}
	if f.boundary != "" {
		opts = append(opts, masonry.WithBoundary(f.boundary))
	}
	return opts
}

// htmlCommand creates the html command, which lays out a static HTML file
// and writes it back with absolute positions.
func (c *CLI) htmlCommand() *cobra.Command {
	var (
		hf             hostFlags
		output         string
		viewportWidth  float64
		viewportHeight float64
	)

	cmd := &cobra.Command{
		Use:   "html [page.html]",
		Short: "Lay out the bricks of a static HTML file",
		Long: `Lay out the bricks of a static HTML file.

Brick sizes come from each element's inline style (width, height in px) or
its data-width and data-height attributes. Every placed brick gets
"position: absolute; left: Xpx; top: Ypx" in its inline style.

Selectors starting with "/" or "(" are XPath; all others are CSS.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := hf.source()
			if err != nil {
				return err
			}
			var docOpts []htmldoc.Option
			if viewportWidth > 0 {
				docOpts = append(docOpts, htmldoc.WithViewport(viewportWidth, viewportHeight))
			}
			return c.runHTML(cmd.Context(), args[0], output, src, docOpts, c.hostOptions(cmd, &hf))
		},
	}

	hf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.masonry.html, - for stdout)")
	cmd.Flags().Float64Var(&viewportWidth, "viewport-width", 0, "viewport width (default: meta viewport or 1280)")
	cmd.Flags().Float64Var(&viewportHeight, "viewport-height", htmldoc.DefaultViewportHeight, "viewport height")

	return cmd
}

func (c *CLI) runHTML(ctx context.Context, input, output string, src masonry.Source, docOpts []htmldoc.Option, opts []masonry.Option) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	doc, err := htmldoc.Parse(f, docOpts...)
	f.Close()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	engine, err := masonry.New(doc, src, opts...)
	if err != nil {
		return err
	}
	if err := engine.Layout(); err != nil {
		return err
	}
	l := engine.Snapshot()
	prog.done(fmt.Sprintf("Placed %d bricks", len(l.Placements)))

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	if output == "-" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".masonry.html"
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(l.Placements), len(l.Columns()), false)
	return nil
}
