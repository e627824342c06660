package tracegraph

import "github.com/moolen/eventmodel/internal/event"

// DAGTrace is one partially-ordered input trace for BuildDAGs: Events and
// Clocks are parallel slices, Clocks[i] timestamping Events[i].
type DAGTrace struct {
	Events []event.Event
	Clocks []VectorClock
}

// BuildDAGs constructs a DAGs-shaped Graph. A transition u -> v is added
// exactly when clock(u) immediately precedes clock(v) under the
// componentwise partial order (the Hasse diagram / transitive reduction of
// HappensBefore); events with no intervening event are connected directly.
// Roots (no in-trace predecessor) hang off the shared Initial; sinks (no
// in-trace successor) point to the shared Terminal. Input whose clocks
// admit a cycle -- which can only happen for malformed vector clocks -- is
// rejected.
func BuildDAGs(traces []DAGTrace, orderingRelation string) (*Graph, error) {
	b := newBuilder(DAGs)
	b.bootstrapSentinels()

	for ti, trace := range traces {
		if len(trace.Events) == 0 {
			return nil, newConsistencyError(ti, "trace has no events")
		}
		if len(trace.Events) != len(trace.Clocks) {
			return nil, newConsistencyError(ti, "events and clocks length mismatch")
		}
		for i, ev := range trace.Events {
			if ev.Type.IsSentinel() {
				return nil, newConsistencyError(ti, "event %q reuses a reserved sentinel type", ev.Type)
			}
			for j := i + 1; j < len(trace.Events); j++ {
				if trace.Clocks[i].Equal(trace.Clocks[j]) {
					return nil, newConsistencyError(ti, "events %d and %d share an identical vector clock", i, j)
				}
			}
		}

		n := len(trace.Events)
		before := make([][]bool, n)
		for i := range before {
			before[i] = make([]bool, n)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				if trace.Clocks[i].HappensBefore(trace.Clocks[j]) {
					before[i][j] = true
					if trace.Clocks[j].HappensBefore(trace.Clocks[i]) {
						return nil, newConsistencyError(ti, "vector clocks for events %d and %d admit a cycle", i, j)
					}
				}
			}
		}

		ids := make([]NodeID, n)
		for i, ev := range trace.Events {
			ids[i] = b.alloc(ev, ti)
		}

		hasIncoming := make([]bool, n)
		hasOutgoing := make([]bool, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if !before[i][j] {
					continue
				}
				if coveredByIntermediate(before, i, j, n) {
					continue
				}
				b.connect(ids[i], ids[j], orderingRelation)
				hasOutgoing[i] = true
				hasIncoming[j] = true
			}
		}

		for i := 0; i < n; i++ {
			if !hasIncoming[i] {
				b.connect(b.graph.Initial, ids[i], orderingRelation)
			}
			if !hasOutgoing[i] {
				b.connect(ids[i], b.graph.Terminal, orderingRelation)
			}
		}

		b.graph.Traces = append(b.graph.Traces, &Trace{Nodes: ids})
	}

	return b.graph, nil
}

// coveredByIntermediate reports whether the before[i][j] edge is implied by
// transitivity through some other event k (i.e. it is not part of the
// Hasse diagram's transitive reduction).
func coveredByIntermediate(before [][]bool, i, j, n int) bool {
	for k := 0; k < n; k++ {
		if k == i || k == j {
			continue
		}
		if before[i][k] && before[k][j] {
			return true
		}
	}
	return false
}
