package family_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/kindred/pkg/family"
	"github.com/matzehuels/kindred/pkg/sat"
)

func ExampleMerge() {
	ctx := context.Background()
	opts := family.Options{Solver: sat.Backtracker{Seed: 42}}

	one, _ := family.New(ctx, 3, "Ashford", 0.5, 1, opts)
	two, _ := family.New(ctx, 4, "Diallo", 0.5, 1, opts)
	both, _ := family.Merge(one, two)

	fmt.Println(both.Surname())
	fmt.Println(both.NodeCount(), "nodes,", both.EdgeCount(), "edge slots")

	e, _ := both.Edge(3) // first edge of the second family
	fmt.Printf("edge %d: %d--%d\n", e.Index, e.Source, e.Dest)
	// Output:
	// Ashford and Diallo
	// 7 nodes, 9 edge slots
	// edge 3: 3--4
}

func ExampleDensityBounds() {
	b, _ := family.DensityBounds(5, 0.3, 0.6)
	fmt.Println(b)

	b, _ = family.DensityBounds(2, 0, 0.5)
	fmt.Println(b)
	// Output:
	// [3, 6] of 10
	// [0, 1] of 1 (forced)
}
