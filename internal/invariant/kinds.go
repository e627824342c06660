// Package invariant mines behavioral invariants -- statements about the
// order in which event types can or must occur -- from a trace graph. Two
// independent mining strategies are provided: ChainWalkingMiner, which folds
// relpath.RelationPath tables across every trace, and TransitiveClosureMiner,
// which reasons directly over graph reachability and tolerates the
// branching DAG shape a relation path walker cannot.
package invariant

import (
	"fmt"

	"github.com/moolen/eventmodel/internal/event"
)

// Kind identifies the shape of temporal constraint an Invariant expresses.
type Kind int

const (
	// AFby: every occurrence of Left is, at some later point, followed by
	// an occurrence of Right ("always followed by").
	AFby Kind = iota
	// AP: every occurrence of Right is, at some earlier point, preceded by
	// an occurrence of Left ("always precedes").
	AP
	// NFby: no occurrence of Left is ever followed by an occurrence of
	// Right ("never followed by").
	NFby
	// IntrBy: every pair of consecutive occurrences of Left has an
	// occurrence of Right somewhere between them ("interrupted by").
	IntrBy
	// NeverConcurrent: no occurrence of Left and occurrence of Right within
	// the same trace are vector-clock incomparable.
	NeverConcurrent
)

func (k Kind) String() string {
	switch k {
	case AFby:
		return "AFby"
	case AP:
		return "AP"
	case NFby:
		return "NFby"
	case IntrBy:
		return "IntrBy"
	case NeverConcurrent:
		return "NeverConcurrent"
	default:
		return "Unknown"
	}
}

// Invariant is one mined constraint between two event types, plus the
// number of traces that exercised it.
type Invariant struct {
	Left    event.EventType
	Kind    Kind
	Right   event.EventType
	Support int
}

// String renders an invariant for diagnostics and for the text export
// format: "<left> <kind> <right> [support=N]".
func (i Invariant) String() string {
	return fmt.Sprintf("%s %s %s [support=%d]", i.Left, i.Kind, i.Right, i.Support)
}

// Key identifies an invariant's (Left, Kind, Right) triple, ignoring
// Support, for deduplication and counterexample lookups.
type Key struct {
	Left  event.EventType
	Kind  Kind
	Right event.EventType
}

// Key returns i's dedup key.
func (i Invariant) Key() Key {
	return Key{Left: i.Left, Kind: i.Kind, Right: i.Right}
}
