// Package pkg provides the core libraries for Kindred.
//
// # Overview
//
// Kindred builds two families as random connected graphs whose edge density
// stays within configured bounds, binds generated characters to their
// members and deals story cards that cast those characters. The pkg
// directory is organized into three areas:
//
//  1. Core: [sat], [combin], [family], [population], [cards], [selector]
//  2. Orchestration: [setup] builds a world, [session] persists play
//  3. Infrastructure: [cache], [observability], [errors], [graph], [io],
//     [render/nodelink]
//
// # Architecture
//
// The data flow through Kindred:
//
//	setup.Options (TOML or flags)
//	         ↓
//	    [family] posts density and connectivity constraints to a [sat] solver
//	         ↓
//	    [family.Merge] places both families side by side
//	         ↓
//	    [population] characters are bound to graph nodes
//	         ↓
//	    [cards.Enumerate] every cast of every template, C(n, k) per template
//	         ↓
//	    [selector] deals the deck one week at a time
//
// # Quick Start
//
//	runner := setup.NewRunner(cache.NewNullCache(), nil, logger)
//	world, err := runner.Build(ctx, setup.Options{Seed: 7})
//	if err != nil {
//	    return err
//	}
//
//	sel := world.NewSelector(selector.Options{})
//	card, err := sel.Advance(ctx, cards.NullChoice())
//	fmt.Println(card.Text())
//
// # Error Handling
//
// Packages return *errors.Error values carrying a code such as
// UNSATISFIABLE_CONSTRAINTS or SELECTOR_EXHAUSTED. Check codes with
// errors.Is(err, errors.ErrCodeUnsatisfiable).
//
// [sat]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/sat
// [combin]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/combin
// [family]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/family
// [family.Merge]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/family#Merge
// [population]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/population
// [cards]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/cards
// [cards.Enumerate]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/cards#Enumerate
// [selector]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/selector
// [setup]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/setup
// [session]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/errors
// [graph]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/graph
// [io]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/kindred/pkg/render/nodelink
package pkg
