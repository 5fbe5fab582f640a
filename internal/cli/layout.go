package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	mio "github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// addLayoutFlags registers the flags that override a scene's layout settings.
func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("column-width", 0, "column width (overrides the scene)")
	cmd.Flags().Float64("column-gap", 0, "gap between columns (overrides the scene)")
	cmd.Flags().Float64("row-gap", 0, "gap between stacked bricks (overrides the scene)")
}

// layoutOverrides copies explicitly configured layout settings into opts.
// Defaults are left to the scene.
func (c *CLI) layoutOverrides(cmd *cobra.Command, opts *pipeline.Options) {
	if w, ok := c.explicitFloat(cmd, "column-width", keyColumnWidth); ok {
		opts.ColumnWidth = w
	}
	if g, ok := c.explicitFloat(cmd, "column-gap", keyColumnGap); ok {
		opts.ColumnGap = &g
	}
	if g, ok := c.explicitFloat(cmd, "row-gap", keyRowGap); ok {
		opts.RowGap = &g
	}
}

// layoutCommand creates the layout command for computing brick positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		apply   string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [scene.toml|scene.json]",
		Short: "Compute brick positions for a scene",
		Long: `Compute brick positions for a scene.

The layout command reads a scene file, places every brick and writes the
layout as JSON (one placement per brick, with the boundary and the resolved
column settings). The layout can be rendered with 'render' or replayed with
'preview'.

With --apply the scene itself is written back with each element moved to its
placed position.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSceneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Refresh: refresh}
			c.layoutOverrides(cmd, &opts)
			return c.runLayout(cmd.Context(), args[0], opts, output, apply, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().StringVar(&apply, "apply", "", "also write the positioned scene to this path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	addLayoutFlags(cmd)

	return cmd
}

// runLayout loads the scene, computes the layout and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output, apply string, noCache bool) error {
	scene, err := mio.ImportScene(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	l, _, cacheHit, err := runner.LayoutWithCacheInfo(ctx, scene, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Placed %d bricks", len(l.Placements)))

	data, err := mio.MarshalLayout(l)
	if err != nil {
		return err
	}

	if apply != "" {
		positioned := opts.Apply(scene)
		mio.ApplyLayout(positioned, l)
		if err := mio.ExportScene(positioned, apply); err != nil {
			return fmt.Errorf("write scene %s: %w", apply, err)
		}
	}

	if output == "-" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}
	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	if apply != "" {
		printFile(apply)
	}

	printStats(len(l.Placements), len(l.Columns()), cacheHit)
	fmt.Fprintln(stdout)
	printNextStep("Render", appName+" render "+input)
	printNextStep("Preview", appName+" preview "+input)

	return nil
}
