package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	mio "github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file (single format) or base path (multiple)
	formats string // comma-separated output formats
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro   renderOpts
		opts pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [scene.toml|scene.json]",
		Short: "Lay out a scene and render it",
		Long: `Lay out a scene and render it.

Formats:
  svg   bricks drawn in the chosen style, optionally with column guides
  png   Graphviz rendering with every brick pinned at its position
  pdf   the SVG converted with rsvg-convert
  json  placements with labels and column indices
  dot   the Graphviz source used for png

Several formats can be requested at once; they are rendered in parallel.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSceneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(ro.formats)
			opts.Style = c.flagString(cmd, "style", keyStyle)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			c.layoutOverrides(cmd, &opts)
			return c.runRender(cmd.Context(), args[0], opts, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default svg)")
	cmd.Flags().String("style", pipeline.DefaultStyle, "visual style: "+strings.Join(styles.Names(), ", "))
	cmd.Flags().BoolVar(&opts.Guides, "guides", false, "draw column guides (svg, pdf)")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit element labels")
	cmd.Flags().BoolVar(&opts.Flow, "flow", false, "connect bricks in reading order (png, dot)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("style", completeStyles)

	return cmd
}

// runRender loads the scene, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	scene, err := mio.ImportScene(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, scene, opts)
	if err != nil {
		return err
	}

	paths := outputPaths(ro.output, input, opts.Formats)
	for _, format := range opts.Formats {
		path := paths[format]
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.Bricks, result.Stats.Columns, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output path is written there as given.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
		if paths[f] == input {
			paths[f] = base + ".layout." + f
		}
	}
	return paths
}
