package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kindred/pkg/graph"
)

// ReadJSON decodes a world summary written by [WriteJSON].
func ReadJSON(r io.Reader) (graph.World, error) {
	return graph.ReadWorld(r)
}

// ImportJSON reads a world summary from a JSON file at path.
func ImportJSON(path string) (graph.World, error) {
	f, err := os.Open(path)
	if err != nil {
		return graph.World{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	w, err := ReadJSON(f)
	if err != nil {
		return graph.World{}, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}
