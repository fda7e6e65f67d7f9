package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// =============================================================================
// Serialization API
// =============================================================================

// MarshalFamily converts a family to indented JSON bytes.
func MarshalFamily(f Family) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteWorld writes a world summary as JSON to w.
func WriteWorld(world World, w io.Writer) error {
	return encode(world, w)
}

// ReadWorld decodes a world summary written by [WriteWorld].
func ReadWorld(r io.Reader) (World, error) {
	var world World
	if err := json.NewDecoder(r).Decode(&world); err != nil {
		return World{}, fmt.Errorf("decode: %w", err)
	}
	if len(world.Families) != 3 {
		return World{}, fmt.Errorf("decode: want 3 families, got %d", len(world.Families))
	}
	return world, nil
}

func encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
