package relpath

import (
	mapset "github.com/deckarep/golang-set/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// walk runs the single forward pass over the trace, populating every table.
// It is invoked at most once per RelationPath, via sync.Once.
func (p *RelationPath) walk() {
	p.seen = mapset.NewThreadUnsafeSet[event.EventType]()
	p.eventCounts = orderedmap.New[event.EventType, int]()
	p.followedByCounts = orderedmap.New[event.EventType, *orderedmap.OrderedMap[event.EventType, int]]()
	p.precedesCounts = orderedmap.New[event.EventType, *orderedmap.OrderedMap[event.EventType, int]]()
	p.possibleInterrupts = make(map[event.EventType]mapset.Set[event.EventType])
	windows := make(map[event.EventType]mapset.Set[event.EventType])

	terminal := p.graph.Terminal

	if len(p.trace.Nodes) == 0 {
		p.connectedToStart = true
		return
	}

	first := p.trace.Nodes[0]
	p.connectedToStart = false
	for _, tr := range p.graph.Node(p.graph.Initial).Out {
		if tr.Target == first && tr.Relations.ContainsOne(p.relation) {
			p.connectedToStart = true
			break
		}
	}

	cur := first

	for {
		if cur == terminal {
			return
		}

		node := p.graph.Node(cur)
		rTargets := node.TransitionsOn(p.relation)
		if len(rTargets) > 1 {
			p.err = newWellFormednessError(int(cur), "more than one outgoing %q transition", p.relation)
			return
		}

		var next tracegraph.NodeID
		if len(rTargets) == 1 {
			next = rTargets[0]
		} else {
			oTargets := node.TransitionsOn(p.ordering)
			switch {
			case len(oTargets) == 0:
				p.err = newWellFormednessError(int(cur), "no outgoing transition and path has not reached its end node")
				return
			case len(oTargets) > 1:
				p.err = newWellFormednessError(int(cur), "more than one outgoing %q transition (branching is not well-formed for a relation path)", p.ordering)
				return
			default:
				next = oTargets[0]
			}
		}

		if !node.Type().IsSentinel() {
			p.visit(node.Type(), windows)
			if !p.hasNonSentinel {
				p.hasNonSentinel = true
				p.first = cur
			}
			p.last = cur
		}

		cur = next
	}
}

// visit folds one non-sentinel event occurrence into every table, in the
// order: followedBy/precedes against the current seen set, possible
// interrupt bookkeeping, then the occurrence itself joins eventCounts and
// seen.
func (p *RelationPath) visit(t event.EventType, windows map[event.EventType]mapset.Set[event.EventType]) {
	p.seen.Each(func(a event.EventType) bool {
		count, _ := p.eventCounts.Get(a)
		p.setFollowedBy(a, t, count)
		p.incrementPrecedes(a, t)
		return false
	})

	for other, w := range windows {
		if other == t {
			continue
		}
		w.Add(t)
	}

	if w, ok := windows[t]; ok {
		if existing, ok := p.possibleInterrupts[t]; ok {
			p.possibleInterrupts[t] = existing.Intersect(w)
		} else {
			p.possibleInterrupts[t] = w.Clone()
		}
		windows[t] = mapset.NewThreadUnsafeSet[event.EventType]()
	} else {
		windows[t] = mapset.NewThreadUnsafeSet[event.EventType]()
	}

	if count, ok := p.eventCounts.Get(t); ok {
		p.eventCounts.Set(t, count+1)
	} else {
		p.eventCounts.Set(t, 1)
	}
	p.seen.Add(t)
}

func (p *RelationPath) setFollowedBy(a, b event.EventType, value int) {
	inner, ok := p.followedByCounts.Get(a)
	if !ok {
		inner = orderedmap.New[event.EventType, int]()
		p.followedByCounts.Set(a, inner)
	}
	inner.Set(b, value)
}

func (p *RelationPath) incrementPrecedes(a, b event.EventType) {
	inner, ok := p.precedesCounts.Get(a)
	if !ok {
		inner = orderedmap.New[event.EventType, int]()
		p.precedesCounts.Set(a, inner)
	}
	if v, ok := inner.Get(b); ok {
		inner.Set(b, v+1)
	} else {
		inner.Set(b, 1)
	}
}
