// Package pkg provides the core libraries for Masonry brick layouts.
//
// # Overview
//
// Masonry arranges a set of elements ("bricks") in columns the way a mason
// lays a wall: each brick goes to the right of the previous one, wraps back
// to the first column when the row is full and stacks below whatever
// already sits in its column. The pkg directory is organized into:
//
//  1. [geometry] - Rectangles and the arithmetic the engine needs
//  2. [masonry] - The layout engine, its Host abstraction and options
//  3. [host/memory], [host/htmldoc], [host/browser] - Host implementations
//  4. [io] - Scene files (JSON and TOML) and layout serialization
//  5. [pipeline] - Orchestration (scene → layout → render) with caching
//  6. [render] - Output formats, styles and PDF/PNG conversion
//  7. [cache] - File, Redis and null caches with content-addressed keys
//
// # Architecture
//
// The typical data flow:
//
//	Scene file / HTML page / live browser page
//	         ↓
//	    [masonry.Host] (query elements, measure, move)
//	         ↓
//	    [masonry] package (column tracking + placement)
//	         ↓
//	    [render] package (SVG/JSON/DOT/PDF/PNG)
//
// # Quick Start
//
// Lay out four cards in a 756px wide container:
//
//	doc := memory.New(1024, 768)
//	doc.MustAdd(memory.Spec{ID: "grid", Rect: geometry.NewRectangle(0, 0, 756, 600)})
//	for i, h := range []float64{100, 150, 80, 120} {
//	    doc.MustAdd(memory.Spec{
//	        ID:     fmt.Sprintf("card-%d", i),
//	        Parent: "grid",
//	        Rect:   geometry.NewRectangle(0, 0, 240, h),
//	    })
//	}
//
//	engine, err := masonry.New(doc, masonry.Container("#grid"), masonry.WithColumnWidth(240))
//	if err != nil {
//	    return err
//	}
//	if err := engine.Layout(); err != nil {
//	    return err
//	}
//	for _, p := range engine.Snapshot().Placements {
//	    fmt.Printf("%s at (%g, %g)\n", p.ID, p.X, p.Y)
//	}
//
// For scene files, [pipeline.Runner] wraps the same steps with a cache so
// repeated layouts and renders of an unchanged scene are served from disk
// or Redis.
//
// [geometry]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/geometry
// [masonry]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/masonry
// [masonry.Host]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/masonry#Host
// [host/memory]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/host/memory
// [host/htmldoc]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/host/htmldoc
// [host/browser]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/host/browser
// [io]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/pipeline#Runner
// [render]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/cache
package pkg
