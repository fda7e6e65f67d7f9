package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kindred/pkg/graph"
	"github.com/matzehuels/kindred/pkg/setup"
)

// WriteJSON encodes a world summary as JSON and writes it to w. Only present
// edges are written.
func WriteJSON(w *setup.World, out io.Writer) error {
	return graph.WriteWorld(graph.FromWorld(w, graph.Options{PresentOnly: true}), out)
}

// ExportJSON writes a world to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(w *setup.World, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(w, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
