package setup

import (
	"github.com/google/uuid"

	"github.com/matzehuels/kindred/pkg/cards"
	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/family"
	"github.com/matzehuels/kindred/pkg/population"
	"github.com/matzehuels/kindred/pkg/selector"
)

// Family numbers accepted by [World.Family].
const (
	FamilyOne      = 1
	FamilyTwo      = 2
	FamilyCombined = 3
)

// World is everything one game session plays against. Worlds are immutable
// once built; each session gets its own [selector.Selector] from
// [World.NewSelector].
type World struct {
	ID      uuid.UUID
	Seed    uint64
	Options Options

	One      *family.Graph
	Two      *family.Graph
	Combined *family.Graph

	Templates *cards.Registry
	Deck      []cards.Card

	// Compatibility is the starting compatibility between the two families.
	Compatibility int
}

// Family returns family 1, 2 or 3 (the combined family).
func (w *World) Family(n int) (*family.Graph, error) {
	switch n {
	case FamilyOne:
		return w.One, nil
	case FamilyTwo:
		return w.Two, nil
	case FamilyCombined:
		return w.Combined, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "family must be 1, 2 or 3, got %d", n)
}

// Population returns every individual, family one first.
func (w *World) Population() []*population.Individual {
	b, ok := w.Combined.Binding()
	if !ok {
		return nil
	}
	return b.Population()
}

// NewSelector returns a selector over the world's deck that resolves
// follow-ups against the world's templates. opts.Templates is overridden.
func (w *World) NewSelector(opts selector.Options) *selector.Selector {
	opts.Templates = w.Templates
	if opts.Logger == nil {
		opts.Logger = w.Options.Logger
	}
	return selector.New(w.Deck, opts)
}
