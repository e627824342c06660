package tracegraph

import "github.com/moolen/eventmodel/internal/event"

// builder accumulates arena-allocated nodes shared by the Chains and DAGs
// constructors.
type builder struct {
	graph *Graph
}

func newBuilder(shape Shape) *builder {
	return &builder{graph: &Graph{Shape: shape}}
}

func (b *builder) alloc(ev event.Event, traceIndex int) NodeID {
	id := NodeID(len(b.graph.arena))
	b.graph.arena = append(b.graph.arena, &EventNode{
		ID:         id,
		Event:      ev,
		TraceIndex: traceIndex,
	})
	return id
}

func (b *builder) connect(from, to NodeID, relation string) {
	b.graph.arena[from].addTransition(to, relation)
	b.graph.recordRelation(relation)
}

// bootstrapSentinels allocates the shared Initial/Terminal sentinels first
// so they always occupy NodeID 0 and 1, leaving the builder ready for
// per-trace population. Called once, before any per-trace event is
// allocated.
func (b *builder) bootstrapSentinels() {
	b.graph.Initial = b.alloc(event.Event{Type: event.Initial}, -1)
	b.graph.Terminal = b.alloc(event.Event{Type: event.Terminal}, -1)
}
