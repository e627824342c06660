// Package tracegraph builds the disjoint union of per-trace event graphs
// plus a single shared INITIAL and TERMINAL. Nodes are arena-allocated and
// referenced by stable integer identifiers, so cyclic or shared transitions
// between manually-constructed fixtures never require ownership cycles in
// Go's pointer graph.
package tracegraph

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/moolen/eventmodel/internal/event"
)

// DefaultRelation is the implicit time/ordering relation every transition
// carries unless constructed otherwise.
const DefaultRelation = "t"

// NodeID is a stable integer identifier assigned at construction time. It is
// never reused and is the sole basis for tie-breaking deterministic
// iteration order.
type NodeID int

// Transition is an outgoing edge from one EventNode to another, tagged with
// the set of relations it participates in.
type Transition struct {
	Target    NodeID
	Relations mapset.Set[string]
}

// EventNode is one occurrence of an event.Event inside some trace. Out is an
// ordered list of outgoing transitions, in construction order, never
// reordered after construction.
type EventNode struct {
	ID    NodeID
	Event event.Event

	// TraceIndex identifies which Trace (by index into Graph.Traces) this
	// node belongs to; -1 for the shared Initial/Terminal nodes.
	TraceIndex int

	Out []Transition
}

// Type returns the node's event type.
func (n *EventNode) Type() event.EventType {
	return n.Event.Type
}

// Transitions returns the node's outgoing transitions.
func (n *EventNode) Transitions() []Transition {
	return n.Out
}

// TransitionsOn returns the target node ids reachable via a transition
// tagged with relation r, in the order they were added.
func (n *EventNode) TransitionsOn(r string) []NodeID {
	var out []NodeID
	for _, tr := range n.Out {
		if tr.Relations.ContainsOne(r) {
			out = append(out, tr.Target)
		}
	}
	return out
}

// addTransition appends or augments an outgoing transition. If a transition
// to target already exists it is extended with the new relation tag instead
// of adding a parallel edge; otherwise a new transition is appended,
// preserving insertion order.
func (n *EventNode) addTransition(target NodeID, relation string) {
	for i := range n.Out {
		if n.Out[i].Target == target {
			n.Out[i].Relations.Add(relation)
			return
		}
	}
	n.Out = append(n.Out, Transition{
		Target:    target,
		Relations: mapset.NewThreadUnsafeSet(relation),
	})
}
