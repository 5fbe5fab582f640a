// Package io reads and writes masonry scene files and layout snapshots.
//
// # Overview
//
// A scene is a self-contained description of a page: a viewport, a flat
// list of rectangular elements (with optional parent links, tags and
// classes) and the layout settings to apply. Scenes drive the CLI, the
// HTTP API and the terminal preview through the in-memory host in
// [memory].
//
// # Formats
//
// Scenes are TOML or JSON. [ImportScene] picks the decoder from the file
// extension (.toml, .json); [ReadScene] takes the format explicitly.
//
//	[viewport]
//	width = 1024
//	height = 768
//
//	[layout]
//	container = "#grid"
//	column_width = 240
//	column_gap = 12
//
//	[[elements]]
//	id = "grid"
//	width = 756
//	height = 900
//
//	[[elements]]
//	parent = "grid"
//	classes = ["card"]
//	label = "Hello"
//	width = 240
//	height = 100
//
// The JSON form uses the same field names.
//
// # Element Fields
//
// Required:
//   - width, height: Size in host units, non-negative
//
// Optional:
//   - id: Unique identifier (a random UUID is assigned when omitted)
//   - tag, classes: Matched by "tag", ".class" selectors
//   - parent: ID of an earlier element
//   - x, y: Initial position (overwritten by layout)
//   - label: Text drawn by renderers
//
// # Layout Fields
//
// Exactly one of container (lay out its direct children) or elements
// (a selector whose matches are laid out) is required, together with one
// of column_width or column_width_of. column_gap and row_gap default to 12;
// an explicit 0 is honoured. boundary optionally names the element whose
// rectangle bounds the layout.
//
// # Layout Snapshots
//
// [MarshalLayout] and [UnmarshalLayout] convert a [masonry.Layout] to and
// from JSON. The pipeline caches layouts in this form.
//
// [memory]: github.com/matzehuels/masonry/pkg/host/memory
package io
