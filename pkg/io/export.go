package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// WriteScene encodes s to w in the given format. The output can be read
// back with [ReadScene].
func WriteScene(s *Scene, w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	default:
		return merrors.New(merrors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
	return nil
}

// ExportScene writes s to path, choosing the encoder from its extension.
func ExportScene(s *Scene, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteScene(s, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// MarshalLayout encodes a layout snapshot as JSON.
func MarshalLayout(l masonry.Layout) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// ApplyLayout copies the positions of l back into the scene's elements,
// so an exported scene records where each brick was placed.
func ApplyLayout(s *Scene, l masonry.Layout) {
	pos := make(map[string]masonry.Placement, len(l.Placements))
	for _, p := range l.Placements {
		pos[p.ID] = p
	}
	for i := range s.Elements {
		if p, ok := pos[s.Elements[i].ID]; ok {
			s.Elements[i].X, s.Elements[i].Y = p.X, p.Y
		}
	}
}
