package family

import (
	"maps"
	"slices"

	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/population"
)

// Link is a present edge between two bound individuals, in the
// (source, destination) order fixed by the model.
type Link struct {
	Edge   EdgeIndex
	Source *population.Individual
	Dest   *population.Individual
}

// Binding maps the nodes of a graph to individuals. It is immutable.
type Binding struct {
	graph  *Graph
	people []*population.Individual // node i -> people[i]
	nodes  map[NodeIndex]*population.Individual
	links  []Link
}

// Bind attaches people to the graph's nodes in order: people[i] becomes node
// i. It then materializes one [Link] per present edge in index order.
//
// len(people) must equal the node count (BINDING_ARITY_MISMATCH otherwise,
// checked before anything is bound). A graph can be bound only once;
// subsequent calls return ALREADY_BOUND.
func (g *Graph) Bind(people []*population.Individual) (*Binding, error) {
	if g.binding != nil {
		return nil, errors.New(errors.ErrCodeAlreadyBound, "%s is already bound", g.surname)
	}
	if len(people) != g.nodes {
		return nil, errors.New(errors.ErrCodeArityMismatch,
			"%s has %d nodes, got %d individuals", g.surname, g.nodes, len(people))
	}
	for i, p := range people {
		if p == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "individual %d is nil", i)
		}
	}

	b := &Binding{
		graph:  g,
		people: slices.Clone(people),
		nodes:  make(map[NodeIndex]*population.Individual, len(people)),
	}
	for i, p := range b.people {
		b.nodes[NodeIndex(i)] = p
	}
	for _, e := range g.edges {
		present, err := g.IsEdgePresent(e.Index)
		if err != nil {
			return nil, err
		}
		if present {
			b.links = append(b.links, Link{Edge: e.Index, Source: b.people[e.Source], Dest: b.people[e.Dest]})
		}
	}
	g.binding = b
	return b, nil
}

// Binding returns the graph's binding, if it has been bound.
func (g *Graph) Binding() (*Binding, bool) {
	return g.binding, g.binding != nil
}

// Graph returns the bound graph.
func (b *Binding) Graph() *Graph { return b.graph }

// Len returns the number of bound individuals.
func (b *Binding) Len() int { return len(b.people) }

// Individual returns the individual bound to node n.
func (b *Binding) Individual(n NodeIndex) (*population.Individual, bool) {
	p, ok := b.nodes[n]
	return p, ok
}

// Nodes returns a copy of the node to individual mapping.
func (b *Binding) Nodes() map[NodeIndex]*population.Individual {
	return maps.Clone(b.nodes)
}

// Population returns the bound individuals in node order.
func (b *Binding) Population() []*population.Individual {
	return slices.Clone(b.people)
}

// Links returns the materialized edges in edge index order.
func (b *Binding) Links() []Link {
	return slices.Clone(b.links)
}
