package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kindred/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds age and occupation to node labels.
	Detailed bool

	// ShowAbsent draws absent edge slots as dashed grey lines.
	ShowAbsent bool
}

// ToDOT converts a family to an undirected Graphviz DOT graph.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(f graph.Family, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", f.Name)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	if f.Merged {
		for i, group := range groupBySurname(f.Nodes) {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", group.surname)
			buf.WriteString("    style=dashed;\n")
			for _, n := range group.nodes {
				fmt.Fprintf(&buf, "    %s [label=%q];\n", nodeID(n), fmtLabel(n, opts.Detailed))
			}
			buf.WriteString("  }\n")
		}
	} else {
		for _, n := range f.Nodes {
			fmt.Fprintf(&buf, "  %s [label=%q];\n", nodeID(n), fmtLabel(n, opts.Detailed))
		}
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		if !e.Present && !opts.ShowAbsent {
			continue
		}
		attrs := fmt.Sprintf("label=\"%d\"", e.Index)
		if !e.Present {
			attrs += ", style=dashed, color=lightgrey, fontcolor=lightgrey"
		}
		fmt.Fprintf(&buf, "  n%d -- n%d [%s];\n", e.Source, e.Dest, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type surnameGroup struct {
	surname string
	nodes   []graph.Node
}

// groupBySurname groups consecutive nodes sharing a surname, which is how
// merged families lay out their members.
func groupBySurname(nodes []graph.Node) []surnameGroup {
	var groups []surnameGroup
	for _, n := range nodes {
		if len(groups) == 0 || groups[len(groups)-1].surname != n.Surname {
			groups = append(groups, surnameGroup{surname: n.Surname})
		}
		last := &groups[len(groups)-1]
		last.nodes = append(last.nodes, n)
	}
	return groups
}

func nodeID(n graph.Node) string {
	return "n" + strconv.Itoa(n.Index)
}

func fmtLabel(n graph.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = strconv.Itoa(n.Index)
	}
	if !detailed || n.Name == "" {
		return name
	}
	parts := []string{name, fmt.Sprintf("age: %d", n.Age)}
	if n.Occupation != "" {
		parts = append(parts, n.Occupation)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag to a zero-origin viewBox with
// matching pixel size so that the SVG scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
