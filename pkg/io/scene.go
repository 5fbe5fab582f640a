package io

import (
	"github.com/google/uuid"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/geometry"
	"github.com/matzehuels/masonry/pkg/host/memory"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Scene is a page description that can be laid out without a browser.
type Scene struct {
	Viewport Size      `json:"viewport" toml:"viewport"`
	Layout   Settings  `json:"layout" toml:"layout"`
	Elements []Element `json:"elements" toml:"elements"`
}

// Size is a width and height pair.
type Size struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Settings maps to the engine's source and options.
type Settings struct {
	Container     string   `json:"container,omitempty" toml:"container,omitempty"`
	Elements      string   `json:"elements,omitempty" toml:"elements,omitempty"`
	ColumnWidth   float64  `json:"column_width,omitempty" toml:"column_width,omitempty"`
	ColumnWidthOf string   `json:"column_width_of,omitempty" toml:"column_width_of,omitempty"`
	ColumnGap     *float64 `json:"column_gap,omitempty" toml:"column_gap,omitempty"`
	RowGap        *float64 `json:"row_gap,omitempty" toml:"row_gap,omitempty"`
	Boundary      string   `json:"boundary,omitempty" toml:"boundary,omitempty"`
}

// Element is one rectangle of a scene.
type Element struct {
	ID      string   `json:"id,omitempty" toml:"id,omitempty"`
	Tag     string   `json:"tag,omitempty" toml:"tag,omitempty"`
	Classes []string `json:"classes,omitempty" toml:"classes,omitempty"`
	Parent  string   `json:"parent,omitempty" toml:"parent,omitempty"`
	Label   string   `json:"label,omitempty" toml:"label,omitempty"`
	X       float64  `json:"x,omitempty" toml:"x,omitempty"`
	Y       float64  `json:"y,omitempty" toml:"y,omitempty"`
	Width   float64  `json:"width" toml:"width"`
	Height  float64  `json:"height" toml:"height"`
}

// Normalize assigns a random ID to every element that lacks one.
func (s *Scene) Normalize() {
	for i := range s.Elements {
		if s.Elements[i].ID == "" {
			s.Elements[i].ID = uuid.NewString()
		}
	}
}

// Validate checks sizes, selectors and that exactly one brick source and
// one column width are given. It does not resolve selectors.
func (s *Scene) Validate() error {
	if err := merrors.ValidateDimension("viewport width", s.Viewport.Width); err != nil {
		return err
	}
	if err := merrors.ValidateDimension("viewport height", s.Viewport.Height); err != nil {
		return err
	}

	l := s.Layout
	switch {
	case l.Container == "" && l.Elements == "":
		return merrors.New(merrors.ErrCodeInvalidInput, "layout needs a container or an elements selector")
	case l.Container != "" && l.Elements != "":
		return merrors.New(merrors.ErrCodeInvalidInput, "layout takes a container or an elements selector, not both")
	}
	for _, sel := range []string{l.Container, l.Elements, l.ColumnWidthOf, l.Boundary} {
		if sel == "" {
			continue
		}
		if err := merrors.ValidateSelector(sel); err != nil {
			return err
		}
	}
	if l.ColumnWidthOf == "" {
		if err := merrors.ValidateDimension("column_width", l.ColumnWidth); err != nil {
			return err
		}
	}
	for name, gap := range map[string]*float64{"column_gap": l.ColumnGap, "row_gap": l.RowGap} {
		if gap == nil {
			continue
		}
		if err := merrors.ValidateDimension(name, *gap); err != nil {
			return err
		}
	}

	for _, el := range s.Elements {
		if err := merrors.ValidateDimension("width of "+el.ID, el.Width); err != nil {
			return err
		}
		if err := merrors.ValidateDimension("height of "+el.ID, el.Height); err != nil {
			return err
		}
	}
	return nil
}

// Host builds an in-memory document holding the scene's elements.
func (s *Scene) Host() (*memory.Document, error) {
	doc := memory.New(s.Viewport.Width, s.Viewport.Height)
	for _, el := range s.Elements {
		_, err := doc.Add(memory.Spec{
			ID:      el.ID,
			Tag:     el.Tag,
			Classes: el.Classes,
			Parent:  el.Parent,
			Rect:    geometry.NewRectangle(el.X, el.Y, el.Width, el.Height),
		})
		if err != nil {
			return nil, merrors.Wrap(merrors.ErrCodeInvalidInput, err, "scene element")
		}
	}
	return doc, nil
}

// Source returns the engine source described by the layout settings.
func (s *Scene) Source() masonry.Source {
	if s.Layout.Container != "" {
		return masonry.Container(s.Layout.Container)
	}
	return masonry.Matching(s.Layout.Elements)
}

// Options returns the engine options described by the layout settings.
func (s *Scene) Options() []masonry.Option {
	l := s.Layout
	var opts []masonry.Option
	if l.ColumnWidthOf != "" {
		opts = append(opts, masonry.WithColumnWidthOf(l.ColumnWidthOf))
	} else {
		opts = append(opts, masonry.WithColumnWidth(l.ColumnWidth))
	}
	if l.ColumnGap != nil {
		opts = append(opts, masonry.WithColumnGap(*l.ColumnGap))
	}
	if l.RowGap != nil {
		opts = append(opts, masonry.WithRowGap(*l.RowGap))
	}
	if l.Boundary != "" {
		opts = append(opts, masonry.WithBoundary(l.Boundary))
	}
	return opts
}

// Labels maps element IDs to their labels, skipping unlabeled elements.
func (s *Scene) Labels() map[string]string {
	labels := make(map[string]string)
	for _, el := range s.Elements {
		if el.Label != "" {
			labels[el.ID] = el.Label
		}
	}
	return labels
}
