package invariant

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/relpath"
)

// ChainWalkingMiner aggregates relpath.RelationPath tables, one path per
// trace, into a global set of invariants. It requires every path to be
// well-formed (see relpath.RelationPath.Err) and is therefore only suited to
// Chains-shaped graphs, or DAGs-shaped graphs restricted to a relation that
// happens not to branch.
type ChainWalkingMiner struct {
	IgnoreIntrBy          bool
	SupportCountThreshold int
	IgnoreTypes           map[event.EventType]struct{}
}

// Mine walks every path once and returns every invariant whose support
// exceeds the configured threshold.
func (m ChainWalkingMiner) Mine(paths []*relpath.RelationPath) ([]Invariant, error) {
	types := mapset.NewThreadUnsafeSet[event.EventType]()
	for _, p := range paths {
		if err := p.Err(); err != nil {
			return nil, err
		}
		p.Seen().Each(func(t event.EventType) bool {
			types.Add(t)
			return false
		})
	}

	var out []Invariant
	typeSlice := types.ToSlice()

	for _, a := range typeSlice {
		if m.ignored(a) {
			continue
		}
		if inv, ok := m.mineAlwaysFollowsInitial(paths, a); ok {
			out = append(out, inv)
		}
		for _, b := range typeSlice {
			if a == b || m.ignored(b) {
				continue
			}
			if inv, ok := m.mineAFby(paths, a, b); ok {
				out = append(out, inv)
			}
			if inv, ok := m.mineNFby(paths, a, b); ok {
				out = append(out, inv)
			}
			if inv, ok := m.mineAP(paths, a, b); ok {
				out = append(out, inv)
			}
			if !m.IgnoreIntrBy {
				if inv, ok := m.mineIntrBy(paths, a, b); ok {
					out = append(out, inv)
				}
			}
		}
	}

	return out, nil
}

func (m ChainWalkingMiner) ignored(t event.EventType) bool {
	_, ok := m.IgnoreTypes[t]
	return ok
}

// mineAlwaysFollowsInitial emits AFby(INITIAL, t) for every type t that
// occurred in every path -- the intersection of each path's Seen() set.
func (m ChainWalkingMiner) mineAlwaysFollowsInitial(paths []*relpath.RelationPath, t event.EventType) (Invariant, bool) {
	support := 0
	for _, p := range paths {
		if p.Seen().ContainsOne(t) {
			support++
		}
	}
	if support != len(paths) || support <= m.SupportCountThreshold || support == 0 {
		return Invariant{}, false
	}
	return Invariant{Left: event.Initial, Kind: AFby, Right: t, Support: support}, true
}

func (m ChainWalkingMiner) mineAFby(paths []*relpath.RelationPath, a, b event.EventType) (Invariant, bool) {
	support := 0
	for _, p := range paths {
		count, ok := p.EventCounts().Get(a)
		if !ok || count == 0 {
			continue
		}
		support++
		if p.FollowedBy(a, b) != count {
			return Invariant{}, false
		}
	}
	if support <= m.SupportCountThreshold || support == 0 {
		return Invariant{}, false
	}
	return Invariant{Left: a, Kind: AFby, Right: b, Support: support}, true
}

func (m ChainWalkingMiner) mineNFby(paths []*relpath.RelationPath, a, b event.EventType) (Invariant, bool) {
	support := 0
	for _, p := range paths {
		count, ok := p.EventCounts().Get(a)
		if !ok || count == 0 {
			continue
		}
		support++
		if p.FollowedBy(a, b) != 0 {
			return Invariant{}, false
		}
	}
	if support <= m.SupportCountThreshold || support == 0 {
		return Invariant{}, false
	}
	return Invariant{Left: a, Kind: NFby, Right: b, Support: support}, true
}

func (m ChainWalkingMiner) mineAP(paths []*relpath.RelationPath, a, b event.EventType) (Invariant, bool) {
	support := 0
	for _, p := range paths {
		count, ok := p.EventCounts().Get(b)
		if !ok || count == 0 {
			continue
		}
		support++
		if p.Precedes(a, b) != count {
			return Invariant{}, false
		}
	}
	if support <= m.SupportCountThreshold || support == 0 {
		return Invariant{}, false
	}
	return Invariant{Left: a, Kind: AP, Right: b, Support: support}, true
}

// mineIntrBy holds when, in every path where a recurs, b sits in the
// intersected possible-interrupts set of a.
func (m ChainWalkingMiner) mineIntrBy(paths []*relpath.RelationPath, a, b event.EventType) (Invariant, bool) {
	support := 0
	for _, p := range paths {
		count, ok := p.EventCounts().Get(a)
		if !ok || count < 2 {
			continue
		}
		support++
		if !p.PossibleInterrupts(a).ContainsOne(b) {
			return Invariant{}, false
		}
	}
	if support <= m.SupportCountThreshold || support == 0 {
		return Invariant{}, false
	}
	return Invariant{Left: a, Kind: IntrBy, Right: b, Support: support}, true
}
