// Package graph provides serialization types for families and worlds.
//
// This package defines the canonical wire format for kindred's data, used for
// JSON exports, API responses and session inspection.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Family], [World], [Card]: serialization types (this package)
//   - pkg/family.Graph: solved or merged family graph
//   - pkg/setup.World: everything a game plays against
//
// Use [FromFamily], [FromWorld] and [FromCard] to convert.
//
// # Family Serialization
//
// Families use a node-link JSON format. Edges carry their index in the
// family's edge space and whether the solver selected them:
//
//	{
//	  "name": "Ashford",
//	  "nodes": [{"index": 0, "name": "Ada Ashford"}, {"index": 1, "name": "Bo Ashford"}],
//	  "edges": [{"index": 0, "source": 0, "dest": 1, "present": true}]
//	}
//
// With [Options.PresentOnly] absent edges are omitted, which is how the CLI
// prints edge tables.
package graph
