package invariant

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// ConcurrencyMiner detects, for a DAGs-shaped graph, pairs of event types
// that never occur concurrently within the same trace. Two nodes are
// concurrent when neither structurally reaches the other; BuildDAGs encodes
// the happens-before partial order directly as graph reachability, so this
// needs no separately retained vector clock.
type ConcurrencyMiner struct {
	SupportCountThreshold int
	IgnoreTypes           map[event.EventType]struct{}

	reach map[tracegraph.NodeID]mapset.Set[tracegraph.NodeID]
}

// Mine returns every NeverConcurrent invariant holding across g's traces.
// reach is the forward-reachability table computed by a prior
// TransitiveClosureMiner.Mine call (or built fresh if nil); the two miners
// are typically run together and may share it.
func (m *ConcurrencyMiner) Mine(g *tracegraph.Graph, reach map[tracegraph.NodeID]mapset.Set[tracegraph.NodeID]) []Invariant {
	if reach == nil {
		closure := &TransitiveClosureMiner{}
		closure.Mine(g)
		reach = closure.reach
	}
	m.reach = reach

	var out []Invariant
	types := mapset.NewThreadUnsafeSet[event.EventType]()
	for _, trace := range g.Traces {
		for _, id := range trace.Nodes {
			types.Add(g.Node(id).Type())
		}
	}
	typeSlice := types.ToSlice()

	for i, a := range typeSlice {
		if m.ignored(a) {
			continue
		}
		for j, b := range typeSlice {
			if j <= i || m.ignored(b) {
				continue
			}
			if inv, ok := m.mineNeverConcurrent(g, a, b); ok {
				out = append(out, inv)
			}
		}
	}
	return out
}

func (m ConcurrencyMiner) ignored(t event.EventType) bool {
	_, ok := m.IgnoreTypes[t]
	return ok
}

func (m ConcurrencyMiner) mineNeverConcurrent(g *tracegraph.Graph, a, b event.EventType) (Invariant, bool) {
	support := 0
	for _, trace := range g.Traces {
		var as, bs []tracegraph.NodeID
		for _, id := range trace.Nodes {
			switch g.Node(id).Type() {
			case a:
				as = append(as, id)
			case b:
				bs = append(bs, id)
			}
		}
		if len(as) == 0 || len(bs) == 0 {
			continue
		}
		support++
		for _, va := range as {
			for _, vb := range bs {
				if m.concurrent(va, vb) {
					return Invariant{}, false
				}
			}
		}
	}
	if support <= m.SupportCountThreshold || support == 0 {
		return Invariant{}, false
	}
	return Invariant{Left: a, Kind: NeverConcurrent, Right: b, Support: support}, true
}

func (m ConcurrencyMiner) concurrent(u, v tracegraph.NodeID) bool {
	if u == v {
		return false
	}
	return !m.reach[u].ContainsOne(v) && !m.reach[v].ContainsOne(u)
}
