// Package pipeline runs the scene → layout → render pipeline shared by the
// CLI and the HTTP server.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: build an in-memory host from the scene and run the masonry
//     engine over it
//  2. Render: produce output in one or more formats (SVG, PNG, PDF, JSON, DOT)
//
// Both stages are cached through [cache.Cache]. Layouts are keyed by the
// scene hash and the placement options, artifacts by the layout hash and
// the render options. Formats are rendered concurrently.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, scene, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	merrors "github.com/matzehuels/masonry/pkg/errors"
	mio "github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// DefaultStyle is the default visual style.
const DefaultStyle = styles.NameSimple

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. Zero values keep what the scene says.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout overrides
	ColumnWidth float64  `json:"column_width,omitempty"`
	ColumnGap   *float64 `json:"column_gap,omitempty"`
	RowGap      *float64 `json:"row_gap,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Guides   bool     `json:"guides,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`
	Flow     bool     `json:"flow,omitempty"` // reading-order edges in PNG and DOT output

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger      `json:"-"`
	Observer masonry.Observer `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed (or cached) layout.
	Layout masonry.Layout

	// SceneHash is the content hash of the scene after overrides.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Bricks     int
	Columns    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return merrors.New(merrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if style == "" || !styles.Valid(style) {
		return merrors.New(merrors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, strings.Join(styles.Names(), ", "))
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ColumnWidth != 0 {
		if err := merrors.ValidateDimension("column_width", o.ColumnWidth); err != nil {
			return err
		}
	}
	for name, gap := range map[string]*float64{"column_gap": o.ColumnGap, "row_gap": o.RowGap} {
		if gap == nil {
			continue
		}
		if err := merrors.ValidateDimension(name, *gap); err != nil {
			return err
		}
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Apply returns a copy of s with the layout overrides applied.
func (o *Options) Apply(s *mio.Scene) *mio.Scene {
	out := *s
	out.Elements = slices.Clone(s.Elements)
	if o.ColumnWidth > 0 {
		out.Layout.ColumnWidth = o.ColumnWidth
		out.Layout.ColumnWidthOf = ""
	}
	if o.ColumnGap != nil {
		g := *o.ColumnGap
		out.Layout.ColumnGap = &g
	}
	if o.RowGap != nil {
		g := *o.RowGap
		out.Layout.RowGap = &g
	}
	return &out
}

// LayoutKeyOpts returns the cache key options of a scene's layout with
// default gaps filled in.
func LayoutKeyOpts(s *mio.Scene) cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		ColumnWidth: s.Layout.ColumnWidth,
		ColumnGap:   masonry.DefaultColumnGap,
		RowGap:      masonry.DefaultRowGap,
	}
	if s.Layout.ColumnGap != nil {
		opts.ColumnGap = *s.Layout.ColumnGap
	}
	if s.Layout.RowGap != nil {
		opts.RowGap = *s.Layout.RowGap
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format: format,
		Labels: !o.NoLabels,
	}
	switch format {
	case FormatSVG, FormatPDF:
		opts.Style = o.Style
		opts.Guides = o.Guides
	case FormatJSON:
		opts.Style = o.Style
	case FormatPNG, FormatDOT:
		opts.Flow = o.Flow
	}
	return opts
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
