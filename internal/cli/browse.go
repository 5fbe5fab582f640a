package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/host/browser"
	mio "github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// browseOpts holds the command-line flags for the browse command.
type browseOpts struct {
	hostFlags
	layoutOut  string
	screenshot string
	quality    int
	headful    bool
	wait       string
	hold       time.Duration
}

// browseCommand creates the browse command, which lays out the bricks of a
// live page in Chrome.
func (c *CLI) browseCommand() *cobra.Command {
	var bo browseOpts

	cmd := &cobra.Command{
		Use:   "browse [url]",
		Short: "Lay out the bricks of a live page in Chrome",
		Long: `Lay out the bricks of a live page in Chrome.

The page is loaded in Chrome (headless unless --headful), brick sizes are
measured from the rendered page and every brick is moved to its position
with an absolute left/top. The resulting layout can be written as JSON and
the positioned page captured as a PNG screenshot.

Chrome or Chromium must be installed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := merrors.ValidateURL(args[0]); err != nil {
				return err
			}
			src, err := bo.source()
			if err != nil {
				return err
			}
			cfg := browser.SessionConfig{
				URL:            args[0],
				ViewportWidth:  c.config.GetInt64(keyBrowserWidth),
				ViewportHeight: c.config.GetInt64(keyBrowserHeight),
				Headless:       !bo.headful,
				WaitSelector:   bo.wait,
			}
			timeout := c.flagDuration(cmd, "timeout", keyBrowserTimeout)
			return c.runBrowse(cmd.Context(), cfg, timeout, src, c.hostOptions(cmd, &bo.hostFlags), bo)
		},
	}

	bo.register(cmd)
	cmd.Flags().StringVarP(&bo.layoutOut, "output", "o", "", "write the layout as JSON to this file (- for stdout)")
	cmd.Flags().StringVar(&bo.screenshot, "screenshot", "", "capture the positioned page as PNG to this file")
	cmd.Flags().IntVar(&bo.quality, "quality", 90, "screenshot quality (0-100)")
	cmd.Flags().BoolVar(&bo.headful, "headful", false, "show the browser window")
	cmd.Flags().StringVar(&bo.wait, "wait", "", "wait for this CSS selector before measuring")
	cmd.Flags().DurationVar(&bo.hold, "hold", 0, "keep the browser open this long after layout (with --headful)")
	cmd.Flags().Duration("timeout", 0, "per-evaluation timeout (default from config, 30s)")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, cfg browser.SessionConfig, timeout time.Duration, src masonry.Source, opts []masonry.Option, bo browseOpts) error {
	spinner := newSpinnerWithContext(ctx, "Launching browser...")
	spinner.Start()
	session, err := browser.Open(ctx, cfg, browser.WithTimeout(timeout))
	if err != nil {
		spinner.StopWithError("Browser launch failed")
		return err
	}
	defer session.Close()
	spinner.Stop()

	printKeyValue("Page", cfg.URL)
	printKeyValue("Viewport", fmt.Sprintf("%d×%d", cfg.ViewportWidth, cfg.ViewportHeight))

	prog := newProgress(c.Logger)
	engine, err := masonry.New(session.Page, src, opts...)
	if err != nil {
		return err
	}
	if err := engine.Layout(); err != nil {
		return err
	}
	l := engine.Snapshot()
	prog.done(fmt.Sprintf("Placed %d bricks", len(l.Placements)))

	if bo.layoutOut != "" {
		data, err := mio.MarshalLayout(l)
		if err != nil {
			return err
		}
		if bo.layoutOut == "-" {
			if _, err := fmt.Fprintln(stdout, string(data)); err != nil {
				return err
			}
		} else if err := os.WriteFile(bo.layoutOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", bo.layoutOut, err)
		}
	}

	if bo.screenshot != "" {
		png, err := session.Page.Screenshot(bo.quality)
		if err != nil {
			return err
		}
		if err := os.WriteFile(bo.screenshot, png, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", bo.screenshot, err)
		}
	}

	printSuccess("Layout complete")
	if bo.layoutOut != "" && bo.layoutOut != "-" {
		printFile(bo.layoutOut)
	}
	if bo.screenshot != "" {
		printFile(bo.screenshot)
	}
	printStats(len(l.Placements), len(l.Columns()), false)

	if bo.headful && bo.hold > 0 {
		printInfo("Holding the browser open for %s", bo.hold)
		select {
		case <-time.After(bo.hold):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
