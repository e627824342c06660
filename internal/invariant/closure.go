package invariant

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// TransitiveClosureMiner mines AFby, NFby and AP directly from graph
// reachability rather than from a sequential path walk. Unlike
// ChainWalkingMiner it places no well-formedness requirement on outgoing
// transitions, so it tolerates the branching a DAGs-shaped graph introduces
// at concurrency points. It never mines IntrBy, which is inherently a
// property of a single linear pass, not of reachability.
type TransitiveClosureMiner struct {
	SupportCountThreshold int
	IgnoreTypes           map[event.EventType]struct{}

	reach map[tracegraph.NodeID]mapset.Set[tracegraph.NodeID]
}

// Mine returns every AFby/NFby/AP invariant holding across every trace in g.
func (m *TransitiveClosureMiner) Mine(g *tracegraph.Graph) []Invariant {
	m.reach = make(map[tracegraph.NodeID]mapset.Set[tracegraph.NodeID])
	visiting := make(map[tracegraph.NodeID]bool)

	byType := make(map[event.EventType][]tracegraph.NodeID)
	byTypePerTrace := make([]map[event.EventType][]tracegraph.NodeID, len(g.Traces))
	for ti, trace := range g.Traces {
		perTrace := make(map[event.EventType][]tracegraph.NodeID)
		for _, id := range trace.Nodes {
			t := g.Node(id).Type()
			byType[t] = append(byType[t], id)
			perTrace[t] = append(perTrace[t], id)
		}
		byTypePerTrace[ti] = perTrace
	}

	for _, ids := range byType {
		for _, id := range ids {
			m.reachableFrom(g, id, visiting)
		}
	}

	var out []Invariant
	for a := range byType {
		if m.ignored(a) {
			continue
		}
		for b := range byType {
			if a == b || m.ignored(b) {
				continue
			}
			if inv, ok := m.mineAFby(byTypePerTrace, a, b); ok {
				out = append(out, inv)
			}
			if inv, ok := m.mineNFby(byTypePerTrace, a, b); ok {
				out = append(out, inv)
			}
			if inv, ok := m.mineAP(byTypePerTrace, a, b); ok {
				out = append(out, inv)
			}
		}
	}
	return out
}

func (m TransitiveClosureMiner) ignored(t event.EventType) bool {
	_, ok := m.IgnoreTypes[t]
	return ok
}

func (m *TransitiveClosureMiner) reachableFrom(g *tracegraph.Graph, id tracegraph.NodeID, visiting map[tracegraph.NodeID]bool) mapset.Set[tracegraph.NodeID] {
	if s, ok := m.reach[id]; ok {
		return s
	}
	if visiting[id] {
		return mapset.NewThreadUnsafeSet[tracegraph.NodeID]()
	}
	visiting[id] = true

	result := mapset.NewThreadUnsafeSet[tracegraph.NodeID]()
	for _, tr := range g.Node(id).Out {
		result.Add(tr.Target)
		result = result.Union(m.reachableFrom(g, tr.Target, visiting))
	}

	delete(visiting, id)
	m.reach[id] = result
	return result
}

func (m TransitiveClosureMiner) anyTypeIn(g mapset.Set[tracegraph.NodeID], ids []tracegraph.NodeID) bool {
	for _, id := range ids {
		if g.ContainsOne(id) {
			return true
		}
	}
	return false
}

func (m *TransitiveClosureMiner) mineAFby(byTypePerTrace []map[event.EventType][]tracegraph.NodeID, a, b event.EventType) (Invariant, bool) {
	support := 0
	for _, perTrace := range byTypePerTrace {
		as, ok := perTrace[a]
		if !ok {
			continue
		}
		support++
		bs := perTrace[b]
		for _, va := range as {
			if !m.anyTypeIn(m.reach[va], bs) {
				return Invariant{}, false
			}
		}
	}
	if support <= m.SupportCountThreshold || support == 0 {
		return Invariant{}, false
	}
	return Invariant{Left: a, Kind: AFby, Right: b, Support: support}, true
}

func (m *TransitiveClosureMiner) mineNFby(byTypePerTrace []map[event.EventType][]tracegraph.NodeID, a, b event.EventType) (Invariant, bool) {
	support := 0
	for _, perTrace := range byTypePerTrace {
		as, ok := perTrace[a]
		if !ok {
			continue
		}
		support++
		bs := perTrace[b]
		for _, va := range as {
			if m.anyTypeIn(m.reach[va], bs) {
				return Invariant{}, false
			}
		}
	}
	if support <= m.SupportCountThreshold || support == 0 {
		return Invariant{}, false
	}
	return Invariant{Left: a, Kind: NFby, Right: b, Support: support}, true
}

func (m *TransitiveClosureMiner) mineAP(byTypePerTrace []map[event.EventType][]tracegraph.NodeID, a, b event.EventType) (Invariant, bool) {
	support := 0
	for _, perTrace := range byTypePerTrace {
		bs, ok := perTrace[b]
		if !ok {
			continue
		}
		support++
		as := perTrace[a]
		for _, vb := range bs {
			reached := false
			for _, va := range as {
				if m.reach[va].ContainsOne(vb) {
					reached = true
					break
				}
			}
			if !reached {
				return Invariant{}, false
			}
		}
	}
	if support <= m.SupportCountThreshold || support == 0 {
		return Invariant{}, false
	}
	return Invariant{Left: a, Kind: AP, Right: b, Support: support}, true
}
