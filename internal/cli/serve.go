package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		noCache bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /healthz                    liveness and version
  POST /v1/layout                  scene in, layout JSON out
  POST /v1/render?format=svg|...   scene in, rendered artifact out

Scenes are posted as JSON, or as TOML with Content-Type: application/toml.
Layout overrides and render options go in the query string (column_width,
column_gap, row_gap, style, guides, flow, no_labels, refresh).

The server shares the CLI cache; set cache.redis_url to share it between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			addr := c.flagString(cmd, "addr", keyServeAddr)
			printInfo("Serving the API on %s", StyleLink.Render(listenURL(addr)))
			srv := server.New(runner, loggerFromContext(ctx), server.WithRequestTimeout(timeout))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")

	return cmd
}

// listenURL turns a listen address into a URL for display.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
