package cards

import (
	"iter"

	"github.com/matzehuels/kindred/pkg/combin"
	"github.com/matzehuels/kindred/pkg/population"
)

// Combinations yields every card of t over people, in lexicographic order of
// the cast's population indices. A template with more roles than people
// yields nothing.
func Combinations(t *Template, people []*population.Individual) iter.Seq[Card] {
	return func(yield func(Card) bool) {
		it := combin.New(len(people), t.Arity())
		for it.Next() {
			idx := it.Indices()
			cast := make([]*population.Individual, len(idx))
			for i, j := range idx {
				cast[i] = people[j]
			}
			if !yield(Card{Template: t, Cast: cast}) {
				return
			}
		}
	}
}

// Enumerate builds every card for every template, template by template. The
// result has sum over templates of C(len(people), arity) cards.
func Enumerate(templates []*Template, people []*population.Individual) []Card {
	total := 0
	for _, t := range templates {
		total += Count(t, len(people))
	}
	out := make([]Card, 0, total)
	for _, t := range templates {
		for c := range Combinations(t, people) {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many cards t yields over n individuals.
func Count(t *Template, n int) int {
	return combin.Binomial(n, t.Arity())
}
