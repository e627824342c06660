package tracegraph

import "github.com/moolen/eventmodel/internal/event"

// ExtraRelation attaches an additional relation tag between two events of
// the same ChainTrace, identified by their index into Events. It does not
// introduce a new transition when one already exists between the same pair
// on the ordering relation; it tags the existing one.
type ExtraRelation struct {
	From, To int
	Relation string
}

// ChainTrace is one totally-ordered input trace for BuildChains.
type ChainTrace struct {
	Events         []event.Event
	ExtraRelations []ExtraRelation
}

// BuildChains constructs a Chains-shaped Graph: one node per event in
// order, consecutive nodes wired with orderingRelation, and every trace
// bracketed by the graph's shared Initial/Terminal. Pure construction; the
// only side effect is the returned Graph.
func BuildChains(traces []ChainTrace, orderingRelation string) (*Graph, error) {
	b := newBuilder(Chains)
	b.bootstrapSentinels()

	for ti, trace := range traces {
		if len(trace.Events) == 0 {
			return nil, newConsistencyError(ti, "trace has no events")
		}
		for _, ev := range trace.Events {
			if ev.Type.IsSentinel() {
				return nil, newConsistencyError(ti, "event %q reuses a reserved sentinel type", ev.Type)
			}
		}

		ids := make([]NodeID, len(trace.Events))
		for i, ev := range trace.Events {
			ids[i] = b.alloc(ev, ti)
		}

		b.connect(b.graph.Initial, ids[0], orderingRelation)
		for i := 0; i+1 < len(ids); i++ {
			b.connect(ids[i], ids[i+1], orderingRelation)
		}
		b.connect(ids[len(ids)-1], b.graph.Terminal, orderingRelation)

		for _, extra := range trace.ExtraRelations {
			if extra.From < 0 || extra.From >= len(ids) || extra.To < 0 || extra.To >= len(ids) {
				return nil, newConsistencyError(ti, "extra relation %q references out-of-range event index", extra.Relation)
			}
			b.connect(ids[extra.From], ids[extra.To], extra.Relation)
		}

		b.graph.Traces = append(b.graph.Traces, &Trace{Nodes: ids})
	}

	return b.graph, nil
}
