// Package partition builds and maintains a partition graph: a coarser graph
// whose nodes are equivalence classes (Partitions) of the underlying
// tracegraph.Graph's event nodes, and whose edges are induced from the
// member nodes' own transitions. It is the working representation both
// k-tails construction and invariant-preserving refinement operate on.
package partition

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// ID identifies a Partition within a PartitionGraph. IDs are never reused
// within the lifetime of a PartitionGraph, so they remain stable reference
// points across split/merge Operations.
type ID int

// Partition is one equivalence class of underlying event nodes.
type Partition struct {
	ID      ID
	Members []tracegraph.NodeID
}

// Type returns the event type of p's first member, or the zero EventType if
// p is empty. InitializeFrom does not check that an assignment groups only
// same-typed nodes; for a mixed partition this is the first member's type.
func (p *Partition) Type(g *tracegraph.Graph) event.EventType {
	if len(p.Members) == 0 {
		return event.EventType{}
	}
	return g.Node(p.Members[0]).Type()
}

// Edge is an induced transition from one Partition to another.
type Edge struct {
	Target    ID
	Relations mapset.Set[string]
}
