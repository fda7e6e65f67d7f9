package family

import (
	"github.com/matzehuels/kindred/pkg/errors"
)

// segment places one source graph inside a merged graph's index spaces.
type segment struct {
	graph      *Graph
	nodeOffset NodeIndex
	edgeOffset EdgeIndex
}

// translate maps a source edge into the merged index space.
func (s segment) translate(e Edge) Edge {
	return Edge{
		Index:  e.Index + s.edgeOffset,
		Source: e.Source + s.nodeOffset,
		Dest:   e.Dest + s.nodeOffset,
		Var:    e.Var,
	}
}

// local maps a merged edge index back to the source graph, reporting false
// when the index lies outside this segment.
func (s segment) local(idx EdgeIndex) (EdgeIndex, bool) {
	local := idx - s.edgeOffset
	if local < 0 || int(local) >= len(s.graph.edges) {
		return 0, false
	}
	return local, true
}

// Merge composes two graphs into a new graph with one.NodeCount() +
// two.NodeCount() nodes and one.EdgeCount() + two.EdgeCount() edge slots.
//
// Edges of one keep their indices. Edges of two are shifted up by
// one.EdgeCount() and their endpoints by one.NodeCount(). The inputs are not
// modified and no edge joins the two families.
func Merge(one, two *Graph) (*Graph, error) {
	if one == nil || two == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "merge requires two graphs")
	}
	segments := []segment{
		{graph: one},
		{graph: two, nodeOffset: NodeIndex(one.nodes), edgeOffset: EdgeIndex(len(one.edges))},
	}

	arena := make([]Edge, 0, len(one.edges)+len(two.edges))
	for _, s := range segments {
		for _, e := range s.graph.edges {
			arena = append(arena, s.translate(e))
		}
	}

	return &Graph{
		surname:  one.surname + " and " + two.surname,
		nodes:    one.nodes + two.nodes,
		edges:    arena,
		segments: segments,
	}, nil
}

// Sources returns the two graphs a merged graph was built from, or nil.
func (g *Graph) Sources() []*Graph {
	if !g.Merged() {
		return nil
	}
	out := make([]*Graph, len(g.segments))
	for i, s := range g.segments {
		out[i] = s.graph
	}
	return out
}
