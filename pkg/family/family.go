package family

import (
	"context"
	stderrors "errors"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/sat"
)

// NodeIndex identifies a node within one graph.
type NodeIndex int

// EdgeIndex identifies a potential edge (one decision variable) within one graph.
type EdgeIndex int

// Edge is one potential relationship. Source and Dest are fixed when the
// model is built, whether or not the solver selects the edge.
type Edge struct {
	Index  EdgeIndex
	Source NodeIndex
	Dest   NodeIndex

	// Var is the decision variable in the problem of the graph that solved
	// this edge. For edges copied into a merged graph it still refers to the
	// source graph's problem.
	Var sat.Var
}

// Options configures [New].
type Options struct {
	Solver sat.Solver  // defaults to sat.Backtracker{}
	Logger *log.Logger // defaults to a discard logger
}

func (o Options) withDefaults() Options {
	if o.Solver == nil {
		o.Solver = sat.Backtracker{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Graph is a family relationship graph.
//
// A graph is either solved directly ([New], [Restore]) and owns an
// assignment, or produced by [Merge] and delegates presence queries to its
// sources. Apart from its one-shot binding, a Graph is immutable.
type Graph struct {
	surname    string
	nodes      int
	edges      []Edge // edges[i].Index == i
	bounds     Bounds
	problem    *sat.Problem
	assignment sat.Assignment
	segments   []segment // non-nil for merged graphs

	binding *Binding
}

// New builds and solves the relationship graph of one family.
//
// The solver runs exactly once. If it finds no assignment the returned error
// has code UNSATISFIABLE_CONSTRAINTS and wraps [sat.ErrUnsatisfiable].
func New(ctx context.Context, nodes int, surname string, minDensity, maxDensity float64, opts Options) (*Graph, error) {
	opts = opts.withDefaults()
	if err := errors.ValidateSurname(surname); err != nil {
		return nil, err
	}
	bounds, err := DensityBounds(nodes, minDensity, maxDensity)
	if err != nil {
		return nil, err
	}
	if bounds.Forced {
		opts.Logger.Warn("connectivity forces the only edge", "family", surname, "max_density", maxDensity)
	}

	problem, edges, err := Build(nodes, bounds)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	assignment, err := opts.Solver.Solve(ctx, problem)
	if err != nil {
		if stderrors.Is(err, sat.ErrUnsatisfiable) {
			return nil, errors.Wrap(errors.ErrCodeUnsatisfiable, err,
				"family %s: %d nodes with %s edges", surname, nodes, bounds)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "solve family %s", surname)
	}
	if err := problem.Verify(assignment); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "solver returned an invalid assignment for %s", surname)
	}

	g := &Graph{
		surname:    surname,
		nodes:      nodes,
		edges:      edges,
		bounds:     bounds,
		problem:    problem,
		assignment: assignment,
	}
	opts.Logger.Debug("solved family", "family", surname, "nodes", nodes,
		"edges", g.PresentCount(), "bounds", bounds.String(), "took", time.Since(start))
	return g, nil
}

// Restore rebuilds a solved graph from a previously found assignment without
// running a solver. The assignment is verified against the rebuilt
// constraints; a mismatch returns UNSATISFIABLE_CONSTRAINTS.
func Restore(nodes int, surname string, minDensity, maxDensity float64, a sat.Assignment) (*Graph, error) {
	if err := errors.ValidateSurname(surname); err != nil {
		return nil, err
	}
	bounds, err := DensityBounds(nodes, minDensity, maxDensity)
	if err != nil {
		return nil, err
	}
	problem, edges, err := Build(nodes, bounds)
	if err != nil {
		return nil, err
	}
	if err := problem.Verify(a); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsatisfiable, err, "restore family %s", surname)
	}
	return &Graph{
		surname:    surname,
		nodes:      nodes,
		edges:      edges,
		bounds:     bounds,
		problem:    problem,
		assignment: slices.Clone(a),
	}, nil
}

// Surname returns the family name. Merged graphs are named "<one> and <two>".
func (g *Graph) Surname() string { return g.surname }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return g.nodes }

// EdgeCount returns the number of edge slots, present or not.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Merged reports whether the graph was produced by [Merge].
func (g *Graph) Merged() bool { return g.segments != nil }

// Bounds returns the density bounds the graph was solved with. Merged graphs
// return the zero value.
func (g *Graph) Bounds() Bounds { return g.bounds }

// Edges returns every edge slot keyed by index.
func (g *Graph) Edges() map[EdgeIndex]Edge {
	m := make(map[EdgeIndex]Edge, len(g.edges))
	for _, e := range g.edges {
		m[e.Index] = e
	}
	return m
}

// EdgeList returns every edge slot in index order.
func (g *Graph) EdgeList() []Edge {
	return slices.Clone(g.edges)
}

// Edge returns the edge slot at idx.
func (g *Graph) Edge(idx EdgeIndex) (Edge, error) {
	if idx < 0 || int(idx) >= len(g.edges) {
		return Edge{}, errors.New(errors.ErrCodeInvalidEdgeQuery,
			"edge %d out of range [0, %d) in %s", idx, len(g.edges), g.surname)
	}
	return g.edges[idx], nil
}

// IsEdgePresent reports whether the solver selected edge idx. For a merged
// graph the query is answered by the source graph owning idx. An index
// outside the graph returns INVALID_EDGE_QUERY.
func (g *Graph) IsEdgePresent(idx EdgeIndex) (bool, error) {
	if _, err := g.Edge(idx); err != nil {
		return false, err
	}
	if g.Merged() {
		for _, s := range g.segments {
			if local, ok := s.local(idx); ok {
				return s.graph.IsEdgePresent(local)
			}
		}
		return false, errors.New(errors.ErrCodeInternal, "edge %d has no owning segment", idx)
	}
	return g.assignment.Value(g.edges[idx].Var), nil
}

// PresentEdges returns the edges whose presence check is true, in index order.
func (g *Graph) PresentEdges() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if ok, _ := g.IsEdgePresent(e.Index); ok {
			out = append(out, e)
		}
	}
	return out
}

// PresentCount returns the number of present edges.
func (g *Graph) PresentCount() int {
	n := 0
	for _, e := range g.edges {
		if ok, _ := g.IsEdgePresent(e.Index); ok {
			n++
		}
	}
	return n
}

// Density returns present edges over edge slots, or 0 for graphs with no slots.
func (g *Graph) Density() float64 {
	if len(g.edges) == 0 {
		return 0
	}
	return float64(g.PresentCount()) / float64(len(g.edges))
}

// Assignment returns a copy of the solver's assignment. Merged graphs have
// none and return NOT_SOLVED.
func (g *Graph) Assignment() (sat.Assignment, error) {
	if g.Merged() {
		return nil, errors.New(errors.ErrCodeNotSolved, "%s is a merged graph; query its sources", g.surname)
	}
	return slices.Clone(g.assignment), nil
}

// Problem returns the constraint problem the graph was solved against, or nil
// for merged graphs.
func (g *Graph) Problem() *sat.Problem { return g.problem }
