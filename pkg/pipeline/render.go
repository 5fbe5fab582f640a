package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/render/sink"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, l masonry.Layout, labels map[string]string, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return renderFormats(ctx, l, labels, opts, opts.Formats)
}

func renderFormats(ctx context.Context, l masonry.Layout, labels map[string]string, opts Options, formats []string) (map[string][]byte, error) {
	if opts.NoLabels {
		labels = nil
	}

	start := time.Now()
	observability.Layout().OnRenderStart(ctx, formats)

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, l, labels, opts, format)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	observability.Layout().OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, l masonry.Layout, labels map[string]string, opts Options, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		svgOpts, err := buildSVGOptions(labels, opts)
		if err != nil {
			return nil, err
		}
		return sink.RenderSVG(l, svgOpts...), nil
	case FormatPDF:
		svgOpts, err := buildSVGOptions(labels, opts)
		if err != nil {
			return nil, err
		}
		return sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(svgOpts...))
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithPNGLabels(labels)}
		if opts.Flow {
			pngOpts = append(pngOpts, sink.WithPNGFlow())
		}
		return sink.RenderPNG(ctx, l, pngOpts...)
	case FormatJSON:
		return sink.RenderJSON(l, sink.WithJSONLabels(labels), sink.WithJSONStyle(opts.Style))
	case FormatDOT:
		return []byte(sink.ToDOT(l, sink.DOTOptions{Labels: labels, Flow: opts.Flow})), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(labels map[string]string, opts Options) ([]sink.SVGOption, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style), sink.WithLabels(labels)}
	if opts.Guides {
		svgOpts = append(svgOpts, sink.WithGuides())
	}
	return svgOpts, nil
}
