// Package sat models small boolean constraint problems and solves them.
//
// # Overview
//
// A [Problem] owns boolean decision variables ([Var]) and the constraints
// posted over them. Constraints evaluate partial assignments, which lets a
// solver prune a branch as soon as it can no longer be completed:
//
//   - [Connected]: the links whose variables are true connect every node
//   - [Cardinality]: the number of true variables lies in [Min, Max]
//
// This is not a general-purpose SAT solver. It supports exactly the
// constraint kinds the family graph generator posts, behind the [Solver]
// interface so callers can inject their own implementation.
//
// # Solvers
//
//   - [Backtracker]: randomized depth-first search with failed-literal
//     propagation and seeded restarts. Deterministic for a given seed.
//   - [BruteForce]: exhaustive enumeration for up to [MaxBruteForceVars]
//     variables. Used to cross-check results in tests.
//
// # Usage
//
//	p := sat.NewProblem()
//	ab := p.Bool("a-b")
//	bc := p.Bool("b-c")
//	_ = p.Post(sat.Connected{Nodes: 3, Links: []sat.Link{{Var: ab, A: 0, B: 1}, {Var: bc, A: 1, B: 2}}})
//	a, err := sat.Backtracker{Seed: 42}.Solve(ctx, p)
//	if errors.Is(err, sat.ErrUnsatisfiable) {
//	    // no assignment exists
//	}
package sat
