package family

import (
	"fmt"
	"math"

	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/sat"
)

// Bounds is the inclusive range of true edges allowed for a graph.
type Bounds struct {
	Total int // possible edges, n(n-1)/2
	Lo    int // ceil(minDensity * Total)
	Hi    int // floor(maxDensity * Total)

	// Forced is set when connectivity overrides the density ceiling. This only
	// happens for two nodes, whose single edge must exist even when
	// maxDensity < 1.
	Forced bool
}

// DensityBounds converts density fractions into edge counts for a graph of
// the given node count.
//
// The bounds are not clamped to what connectivity needs. A range that cannot
// hold a spanning tree (Hi < nodes-1) is rejected by [Build] without solving,
// with the single exception of nodes == 2, where Hi is raised to 1 and
// Forced is set.
func DensityBounds(nodes int, minDensity, maxDensity float64) (Bounds, error) {
	if nodes < 1 {
		return Bounds{}, errors.New(errors.ErrCodeInvalidInput, "node count must be at least 1, got %d", nodes)
	}
	if math.IsNaN(minDensity) || math.IsNaN(maxDensity) ||
		minDensity < 0 || maxDensity > 1 || minDensity > maxDensity {
		return Bounds{}, errors.New(errors.ErrCodeInvalidInput,
			"density bounds must satisfy 0 <= min <= max <= 1, got [%g, %g]", minDensity, maxDensity)
	}

	total := nodes * (nodes - 1) / 2
	b := Bounds{
		Total: total,
		Lo:    int(math.Ceil(minDensity*float64(total) - 1e-9)),
		Hi:    int(math.Floor(maxDensity*float64(total) + 1e-9)),
	}
	if nodes == 2 && b.Hi < 1 {
		b.Hi = 1
		b.Forced = true
	}
	return b, nil
}

// Contains reports whether count true edges lie within the bounds.
func (b Bounds) Contains(count int) bool {
	return count >= b.Lo && count <= b.Hi
}

func (b Bounds) reachable(nodes int) error {
	switch {
	case b.Lo > b.Hi:
		return errors.Wrap(errors.ErrCodeUnsatisfiable, sat.ErrUnsatisfiable,
			"density bounds %s admit no edge count", b)
	case nodes > 1 && b.Hi < nodes-1:
		return errors.Wrap(errors.ErrCodeUnsatisfiable, sat.ErrUnsatisfiable,
			"%d nodes need at least %d edges to connect, bounds allow %s", nodes, nodes-1, b)
	}
	return nil
}

func (b Bounds) String() string {
	s := fmt.Sprintf("[%d, %d] of %d", b.Lo, b.Hi, b.Total)
	if b.Forced {
		s += " (forced)"
	}
	return s
}

// Build declares the edge variables of a graph with the given node count and
// posts its connectivity and density constraints. Edge index k is variable k.
//
// A connected graph on n nodes admits every edge count in [n-1, Total], so
// bounds that miss that range are reported as UNSATISFIABLE_CONSTRAINTS
// wrapping [sat.ErrUnsatisfiable] before any search.
func Build(nodes int, bounds Bounds) (*sat.Problem, []Edge, error) {
	if err := bounds.reachable(nodes); err != nil {
		return nil, nil, err
	}
	p := sat.NewProblem()
	edges := make([]Edge, 0, bounds.Total)
	conn := sat.Connected{Nodes: nodes}
	for i := 0; i < nodes; i++ {
		for j := i + 1; j < nodes; j++ {
			v := p.Bool(fmt.Sprintf("%d--%d", i, j))
			edges = append(edges, Edge{
				Index:  EdgeIndex(len(edges)),
				Source: NodeIndex(i),
				Dest:   NodeIndex(j),
				Var:    v,
			})
			conn.Links = append(conn.Links, sat.Link{Var: v, A: i, B: j})
		}
	}
	if err := p.Post(conn); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "post connectivity")
	}
	if err := p.Post(sat.Cardinality{Over: conn.Vars(), Min: bounds.Lo, Max: bounds.Hi}); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "post density")
	}
	return p, edges, nil
}
