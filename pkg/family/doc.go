// Package family builds, merges and binds the relationship graphs of two
// families.
//
// # Building
//
// [New] declares one boolean variable per unordered node pair (i, j), i < j,
// in lexicographic order, so edge index k always names the same pair for a
// given node count. It posts a connectivity constraint and a cardinality
// constraint derived from the density bounds (see [DensityBounds]) and solves
// the problem once with the injected [sat.Solver]. Failure is fatal: there is
// no retry, and the error carries code UNSATISFIABLE_CONSTRAINTS.
//
// # Merging
//
// [Merge] composes two graphs into a third whose node and edge index spaces
// are the disjoint union of its inputs. The second graph's edges move up by
// the first graph's edge count and their endpoints by its node count. No
// edges are synthesized between the two families.
//
// A merged graph has no assignment of its own. [Graph.IsEdgePresent] on a
// merged graph finds the segment owning the index, translates it back and
// asks the source graph.
//
// # Binding
//
// [Graph.Bind] attaches individuals to nodes in sequence order (individual i
// to node i) and materializes one [Link] per present edge. A graph can be
// bound exactly once.
package family
