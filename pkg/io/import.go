package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Format identifies a scene encoding.
type Format string

// Supported scene formats.
const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath returns the scene format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", merrors.New(merrors.ErrCodeInvalidFormat, "unknown scene extension %q (want .toml or .json)", filepath.Ext(path))
}

// ReadScene decodes a scene from r, assigns missing element IDs and
// validates it. Unknown TOML keys and JSON fields are rejected so typos do
// not silently fall back to defaults. ReadScene does not close r.
func ReadScene(r io.Reader, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&s)
		if err != nil {
			return nil, merrors.Wrap(merrors.ErrCodeInvalidInput, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, merrors.New(merrors.ErrCodeInvalidInput, "unknown scene key %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, merrors.Wrap(merrors.ErrCodeInvalidInput, err, "decode json")
		}
	default:
		return nil, merrors.New(merrors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}

	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ImportScene reads the scene file at path, choosing the decoder from its
// extension.
func ImportScene(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadScene(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// UnmarshalLayout decodes a layout snapshot produced by [MarshalLayout].
func UnmarshalLayout(data []byte) (masonry.Layout, error) {
	var l masonry.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return masonry.Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}
