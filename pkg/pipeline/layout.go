package pipeline

import (
	"context"
	"time"

	mio "github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
)

// ComputeLayout lays out a scene without caching. The scene is used as
// given; apply overrides with [Options.Apply] first.
func ComputeLayout(ctx context.Context, s *mio.Scene, opts Options) (masonry.Layout, error) {
	if err := ctx.Err(); err != nil {
		return masonry.Layout{}, err
	}
	opts.SetRenderDefaults()

	host, err := s.Host()
	if err != nil {
		return masonry.Layout{}, err
	}

	src := s.Source()
	engineOpts := append(s.Options(), masonry.WithLogger(opts.Logger))
	if opts.Observer != nil {
		engineOpts = append(engineOpts, masonry.WithObserver(opts.Observer))
	}

	start := time.Now()
	engine, err := masonry.New(host, src, engineOpts...)
	if err != nil {
		observability.Layout().OnLayoutComplete(ctx, src.String(), 0, time.Since(start), err)
		return masonry.Layout{}, err
	}
	observability.Layout().OnLayoutStart(ctx, src.String(), engine.Len())

	err = engine.Layout()
	l := engine.Snapshot()
	observability.Layout().OnLayoutComplete(ctx, src.String(), len(l.Placements), time.Since(start), err)
	if err != nil {
		return masonry.Layout{}, err
	}
	return l, nil
}
