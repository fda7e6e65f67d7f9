package graph

import (
	"github.com/matzehuels/kindred/pkg/cards"
	"github.com/matzehuels/kindred/pkg/family"
	"github.com/matzehuels/kindred/pkg/population"
	"github.com/matzehuels/kindred/pkg/setup"
)

// =============================================================================
// Family - Node-Link Serialization
// =============================================================================

// Family is the serialization format for a family graph.
type Family struct {
	Name    string  `json:"name" bson:"name"`
	Merged  bool    `json:"merged,omitempty" bson:"merged,omitempty"`
	Bounds  *Bounds `json:"bounds,omitempty" bson:"bounds,omitempty"` // nil for merged families
	Density float64 `json:"density" bson:"density"`
	Nodes   []Node  `json:"nodes" bson:"nodes"`
	Edges   []Edge  `json:"edges" bson:"edges"`
}

// Bounds are the edge-count bounds a family was solved with.
type Bounds struct {
	Lo     int  `json:"lo" bson:"lo"`
	Hi     int  `json:"hi" bson:"hi"`
	Total  int  `json:"total" bson:"total"`
	Forced bool `json:"forced,omitempty" bson:"forced,omitempty"`
}

// Node is one family member. Unbound families have only indices.
type Node struct {
	Index      int      `json:"index" bson:"index"`
	ID         string   `json:"id,omitempty" bson:"id,omitempty"`
	Name       string   `json:"name,omitempty" bson:"name,omitempty"`
	Surname    string   `json:"surname,omitempty" bson:"surname,omitempty"`
	Age        int      `json:"age,omitempty" bson:"age,omitempty"`
	Alignment  string   `json:"alignment,omitempty" bson:"alignment,omitempty"`
	Traits     []string `json:"traits,omitempty" bson:"traits,omitempty"`
	Occupation string   `json:"occupation,omitempty" bson:"occupation,omitempty"`
}

// Edge is one edge slot.
type Edge struct {
	Index   int  `json:"index" bson:"index"`
	Source  int  `json:"source" bson:"source"`
	Dest    int  `json:"dest" bson:"dest"`
	Present bool `json:"present" bson:"present"`
}

// Options controls conversion.
type Options struct {
	// PresentOnly omits edges the solver did not select.
	PresentOnly bool
}

// FromFamily converts a family graph. Edges are in index order.
func FromFamily(g *family.Graph, opts Options) Family {
	out := Family{
		Name:    g.Surname(),
		Merged:  g.Merged(),
		Density: g.Density(),
		Nodes:   make([]Node, g.NodeCount()),
	}
	if !g.Merged() {
		b := g.Bounds()
		out.Bounds = &Bounds{Lo: b.Lo, Hi: b.Hi, Total: b.Total, Forced: b.Forced}
	}

	binding, bound := g.Binding()
	for i := range out.Nodes {
		out.Nodes[i] = Node{Index: i}
		if bound {
			if p, ok := binding.Individual(family.NodeIndex(i)); ok {
				out.Nodes[i] = nodeFromIndividual(i, p)
			}
		}
	}

	out.Edges = make([]Edge, 0, g.EdgeCount())
	for _, e := range g.EdgeList() {
		present, _ := g.IsEdgePresent(e.Index)
		if opts.PresentOnly && !present {
			continue
		}
		out.Edges = append(out.Edges, Edge{
			Index:   int(e.Index),
			Source:  int(e.Source),
			Dest:    int(e.Dest),
			Present: present,
		})
	}
	return out
}

func nodeFromIndividual(i int, p *population.Individual) Node {
	return Node{
		Index:      i,
		ID:         p.ID,
		Name:       p.FullName(),
		Surname:    p.Surname,
		Age:        p.Age,
		Alignment:  p.Alignment,
		Traits:     p.Traits,
		Occupation: p.Occupation,
	}
}

// =============================================================================
// Card - Shown Card
// =============================================================================

// Card is the serialization format for a card.
type Card struct {
	Template string   `json:"template" bson:"template"`
	Text     string   `json:"text" bson:"text"`
	Roles    []Role   `json:"roles" bson:"roles"`
	Choices  []Choice `json:"choices,omitempty" bson:"choices,omitempty"`
	Followup string   `json:"followup,omitempty" bson:"followup,omitempty"`
}

// Role is one filled role of a card.
type Role struct {
	Role string `json:"role" bson:"role"`
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Choice is one option offered by a card.
type Choice struct {
	Label    string `json:"label" bson:"label"`
	Followup string `json:"followup,omitempty" bson:"followup,omitempty"`
}

// FromCard converts a card.
func FromCard(c cards.Card) Card {
	out := Card{
		Template: c.Template.Name,
		Text:     c.Text(),
		Followup: c.Template.Followup,
		Roles:    make([]Role, len(c.Cast)),
	}
	for i, p := range c.Cast {
		out.Roles[i] = Role{Role: c.Template.Roles[i], ID: p.ID, Name: p.FullName()}
	}
	for _, ch := range c.Template.Choices {
		out.Choices = append(out.Choices, Choice{Label: ch.Label, Followup: ch.Followup})
	}
	return out
}

// =============================================================================
// World - Setup Summary
// =============================================================================

// World summarizes a built world.
type World struct {
	ID            string          `json:"id" bson:"_id"`
	Seed          uint64          `json:"seed" bson:"seed"`
	Compatibility int             `json:"compatibility" bson:"compatibility"`
	Families      []Family        `json:"families" bson:"families"` // one, two, combined
	Cards         int             `json:"cards" bson:"cards"`
	Templates     []TemplateCount `json:"templates" bson:"templates"`
}

// TemplateCount is the number of deck cards built from one template.
type TemplateCount struct {
	Name  string `json:"name" bson:"name"`
	Roles int    `json:"roles" bson:"roles"`
	Cards int    `json:"cards" bson:"cards"`
}

// FromWorld converts a world. Families are listed one, two, combined.
func FromWorld(w *setup.World, opts Options) World {
	out := World{
		ID:            w.ID.String(),
		Seed:          w.Seed,
		Compatibility: w.Compatibility,
		Cards:         len(w.Deck),
	}
	for _, g := range []*family.Graph{w.One, w.Two, w.Combined} {
		out.Families = append(out.Families, FromFamily(g, opts))
	}

	counts := make(map[string]int)
	for _, c := range w.Deck {
		counts[c.Template.Name]++
	}
	for _, t := range w.Templates.All() {
		out.Templates = append(out.Templates, TemplateCount{Name: t.Name, Roles: t.Arity(), Cards: counts[t.Name]})
	}
	return out
}
