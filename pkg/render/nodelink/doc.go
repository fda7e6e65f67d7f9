// Package nodelink renders family graphs as node-link diagrams.
//
// # Usage
//
// Convert a serialized family to DOT, then render it to SVG:
//
//	f := graph.FromFamily(g, graph.Options{PresentOnly: true})
//	dot := nodelink.ToDOT(f, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include age and occupation
//   - ShowAbsent: edge slots the solver left empty are drawn dashed
//
// Members of a merged family are grouped in one cluster per surname. No edge
// ever crosses clusters.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package nodelink
