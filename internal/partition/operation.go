package partition

import (
	"fmt"

	"github.com/moolen/eventmodel/internal/tracegraph"
)

// Operation is a reversible mutation of a Graph. Apply performs the
// mutation and records whatever state Inverse needs; Inverse must only be
// called after a successful Apply, and the Operation it returns exactly
// undoes that Apply when applied in turn.
type Operation interface {
	Apply(g *Graph) error
	Inverse() Operation
}

// MultiSplit splits one partition into len(Groups) new partitions. Groups
// must together contain exactly Target's current members, with no overlap.
// The first group keeps Target's ID; later groups are assigned fresh IDs
// unless GroupIDs is set, in which case GroupIDs[i] is used for Groups[i]
// (used internally to make Merge.Inverse() restore the exact original ID).
type MultiSplit struct {
	Target   ID
	Groups   [][]tracegraph.NodeID
	GroupIDs []ID

	resultIDs       []ID
	originalMembers []tracegraph.NodeID
}

// Apply implements Operation.
func (op *MultiSplit) Apply(g *Graph) error {
	p, ok := g.partitions[op.Target]
	if !ok {
		return fmt.Errorf("partition: split: no such partition %d", op.Target)
	}
	if len(op.Groups) < 2 {
		return fmt.Errorf("partition: split: need at least 2 groups, got %d", len(op.Groups))
	}

	seen := make(map[tracegraph.NodeID]bool, len(p.Members))
	total := 0
	for _, group := range op.Groups {
		for _, n := range group {
			if seen[n] {
				return fmt.Errorf("partition: split: node %d assigned to more than one group", n)
			}
			seen[n] = true
			total++
		}
	}
	if total != len(p.Members) {
		return fmt.Errorf("partition: split: groups cover %d nodes, partition %d has %d", total, op.Target, len(p.Members))
	}
	for _, n := range p.Members {
		if !seen[n] {
			return fmt.Errorf("partition: split: groups do not cover member %d of partition %d", n, op.Target)
		}
	}

	op.originalMembers = append([]tracegraph.NodeID(nil), p.Members...)
	delete(g.partitions, op.Target)

	op.resultIDs = make([]ID, len(op.Groups))
	for i, group := range op.Groups {
		var id ID
		switch {
		case i == 0:
			id = op.Target
		case op.GroupIDs != nil:
			id = op.GroupIDs[i]
		default:
			id = g.allocID()
		}
		g.partitions[id] = &Partition{ID: id, Members: group}
		for _, n := range group {
			g.memberOf[n] = id
		}
		op.resultIDs[i] = id
	}

	g.markDirty()
	return nil
}

// Inverse implements Operation: re-merging every resulting partition back
// into Target with its original member set.
func (op *MultiSplit) Inverse() Operation {
	groupIDs := append([]ID(nil), op.resultIDs...)
	return &mergeAll{
		target:           op.Target,
		ids:              op.resultIDs,
		originalGroups:   op.Groups,
		originalGroupIDs: groupIDs,
		originalMembers:  op.originalMembers,
	}
}

// mergeAll is the inverse of a MultiSplit: it collapses every partition the
// split produced back into one. It is not constructed directly by callers.
type mergeAll struct {
	target           ID
	ids              []ID
	originalGroups   [][]tracegraph.NodeID
	originalGroupIDs []ID
	originalMembers  []tracegraph.NodeID
}

func (op *mergeAll) Apply(g *Graph) error {
	for _, id := range op.ids {
		if _, ok := g.partitions[id]; !ok {
			return fmt.Errorf("partition: merge: no such partition %d", id)
		}
	}
	for _, id := range op.ids {
		if id != op.target {
			delete(g.partitions, id)
		}
	}
	g.partitions[op.target] = &Partition{ID: op.target, Members: op.originalMembers}
	for _, n := range op.originalMembers {
		g.memberOf[n] = op.target
	}
	g.markDirty()
	return nil
}

func (op *mergeAll) Inverse() Operation {
	return &MultiSplit{
		Target:   op.target,
		Groups:   op.originalGroups,
		GroupIDs: op.originalGroupIDs,
	}
}

// Merge merges partition B into partition A: A keeps its ID, gains B's
// members, and B stops existing.
type Merge struct {
	A, B ID

	membersA, membersB []tracegraph.NodeID
}

// Apply implements Operation.
func (op *Merge) Apply(g *Graph) error {
	if op.A == op.B {
		return fmt.Errorf("partition: merge: cannot merge partition %d with itself", op.A)
	}
	pa, ok := g.partitions[op.A]
	if !ok {
		return fmt.Errorf("partition: merge: no such partition %d", op.A)
	}
	pb, ok := g.partitions[op.B]
	if !ok {
		return fmt.Errorf("partition: merge: no such partition %d", op.B)
	}

	ta, tb := pa.Type(g.Underlying), pb.Type(g.Underlying)
	if ta.IsSentinel() || tb.IsSentinel() {
		return fmt.Errorf("partition: merge: cannot merge sentinel partition (%d: %s, %d: %s)", op.A, ta, op.B, tb)
	}
	if ta != tb {
		return fmt.Errorf("partition: merge: cannot merge partitions of different event types (%d: %s, %d: %s)", op.A, ta, op.B, tb)
	}

	op.membersA = append([]tracegraph.NodeID(nil), pa.Members...)
	op.membersB = append([]tracegraph.NodeID(nil), pb.Members...)

	pa.Members = append(append([]tracegraph.NodeID(nil), pa.Members...), pb.Members...)
	for _, n := range pb.Members {
		g.memberOf[n] = op.A
	}
	delete(g.partitions, op.B)
	g.markDirty()
	return nil
}

// Inverse implements Operation: splitting A back into its pre-merge members
// (as A) and B's original members (as B).
func (op *Merge) Inverse() Operation {
	return &MultiSplit{
		Target:   op.A,
		Groups:   [][]tracegraph.NodeID{op.membersA, op.membersB},
		GroupIDs: []ID{op.A, op.B},
	}
}
