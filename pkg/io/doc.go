// Package io exports worlds as JSON and reads the exports back.
//
// # Export
//
// Use [ExportJSON] to write a world to a file, or [WriteJSON] to write to any
// io.Writer:
//
//	err := io.ExportJSON(world, "world.json")
//
// The export holds the three families (one, two and the combined family)
// with their members and present edges, the starting compatibility and the
// number of deck cards per template. It does not hold the deck itself; the
// deck is determined by the world's options.
//
// # Import
//
// [ImportJSON] and [ReadJSON] decode an export into a [graph.World] for
// inspection. Imported worlds cannot be played; rebuild them from their
// options with setup.Runner instead.
package io
