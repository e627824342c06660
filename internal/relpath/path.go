// Package relpath walks a single trace along its ordering relation, folding
// in a second "primary" relation where present, and accumulates the count
// tables the invariant miners read from: how often each event type occurs,
// what follows or precedes what, and which types could plausibly interrupt a
// recurring event.
package relpath

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// RelationPath walks one trace of a Graph, combining a primary relation with
// the graph's ordering relation to produce a single linear sequence of
// non-sentinel events. Table computation is lazy: the walk runs once, on
// first access to any table, and the result is cached for the lifetime of
// the RelationPath.
type RelationPath struct {
	graph    *tracegraph.Graph
	trace    *tracegraph.Trace
	relation string
	ordering string

	once sync.Once
	err  error

	first, last       tracegraph.NodeID
	hasNonSentinel    bool
	connectedToStart  bool

	seen               mapset.Set[event.EventType]
	eventCounts        *orderedmap.OrderedMap[event.EventType, int]
	followedByCounts   *orderedmap.OrderedMap[event.EventType, *orderedmap.OrderedMap[event.EventType, int]]
	precedesCounts     *orderedmap.OrderedMap[event.EventType, *orderedmap.OrderedMap[event.EventType, int]]
	possibleInterrupts map[event.EventType]mapset.Set[event.EventType]
}

// New returns a RelationPath over trace, combining relation (the path's
// primary relation -- may equal ordering) with ordering (the graph's total
// per-trace ordering relation used as a fallback when relation doesn't
// directly connect consecutive events).
func New(graph *tracegraph.Graph, trace *tracegraph.Trace, relation, ordering string) *RelationPath {
	return &RelationPath{
		graph:    graph,
		trace:    trace,
		relation: relation,
		ordering: ordering,
	}
}

// Err returns the well-formedness error encountered while walking the path,
// if any. It forces the walk to run if it hasn't already.
func (p *RelationPath) Err() error {
	p.ensureWalked()
	return p.err
}

// First returns the first non-sentinel node on the path.
func (p *RelationPath) First() (tracegraph.NodeID, bool) {
	p.ensureWalked()
	return p.first, p.hasNonSentinel
}

// Last returns the last non-sentinel node on the path.
func (p *RelationPath) Last() (tracegraph.NodeID, bool) {
	p.ensureWalked()
	return p.last, p.hasNonSentinel
}

// ConnectedToStart reports whether the hop from the graph's Initial node to
// First() was taken on the path's primary relation, with no fallback to the
// ordering relation.
func (p *RelationPath) ConnectedToStart() bool {
	p.ensureWalked()
	return p.connectedToStart
}

// Seen returns the complete set of non-sentinel event types encountered
// anywhere on the path.
func (p *RelationPath) Seen() mapset.Set[event.EventType] {
	p.ensureWalked()
	return p.seen
}

// EventCounts returns, for each non-sentinel type, how many times it
// occurred on the path.
func (p *RelationPath) EventCounts() *orderedmap.OrderedMap[event.EventType, int] {
	p.ensureWalked()
	return p.eventCounts
}

// FollowedBy returns how many times an occurrence of a was, at some later
// point on the path, followed by an occurrence of b.
func (p *RelationPath) FollowedBy(a, b event.EventType) int {
	p.ensureWalked()
	inner, ok := p.followedByCounts.Get(a)
	if !ok {
		return 0
	}
	v, _ := inner.Get(b)
	return v
}

// Precedes returns how many times an occurrence of b was, at some earlier
// point on the path, preceded by an occurrence of a.
func (p *RelationPath) Precedes(a, b event.EventType) int {
	p.ensureWalked()
	inner, ok := p.precedesCounts.Get(a)
	if !ok {
		return 0
	}
	v, _ := inner.Get(b)
	return v
}

// PossibleInterrupts returns the set of types that appeared between some
// pair of consecutive occurrences of t, intersected across every such pair
// on the path. A type with fewer than two occurrences has no entry.
func (p *RelationPath) PossibleInterrupts(t event.EventType) mapset.Set[event.EventType] {
	p.ensureWalked()
	if s, ok := p.possibleInterrupts[t]; ok {
		return s
	}
	return mapset.NewThreadUnsafeSet[event.EventType]()
}

func (p *RelationPath) ensureWalked() {
	p.once.Do(p.walk)
}
