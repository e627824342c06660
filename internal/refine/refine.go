// Package refine implements counterexample-guided partition splitting: given
// a partition graph and a set of invariants known to hold over the real
// traces, it repeatedly looks for a spurious path that the partition graph
// admits but the invariants forbid, and splits the partition responsible
// until none remain (or an iteration budget runs out).
package refine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/moolen/eventmodel/internal/invariant"
	"github.com/moolen/eventmodel/internal/partition"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// Refine mutates pg in place, applying one reversible partition.Operation
// per resolved counterexample, up to maxIterations splits. It returns every
// Operation applied, in order, and whichever invariants still have an
// unresolved counterexample once the budget is spent or no counterexample
// can be split away.
func Refine(pg *partition.Graph, invs []invariant.Invariant, maxIterations int) ([]partition.Operation, []invariant.Invariant, error) {
	var ops []partition.Operation

	for iter := 0; iter < maxIterations; iter++ {
		progressed := false
		for _, inv := range invs {
			cex, ok := partition.GetCounterexample(pg, inv)
			if !ok {
				continue
			}
			pid, groups, ok := findSplittablePartition(pg, cex.Path)
			if !ok {
				continue
			}
			split := &partition.MultiSplit{Target: pid, Groups: groups}
			if err := split.Apply(pg); err != nil {
				return ops, nil, err
			}
			ops = append(ops, split)
			progressed = true
			break
		}
		if !progressed {
			break
		}
	}

	var unresolved []invariant.Invariant
	for _, inv := range invs {
		if _, ok := partition.GetCounterexample(pg, inv); ok {
			unresolved = append(unresolved, inv)
		}
	}
	return ops, unresolved, nil
}

// findSplittablePartition scans path for the first partition whose members
// disagree on their outgoing signature -- the fork responsible for the
// counterexample -- and returns it grouped by signature.
func findSplittablePartition(pg *partition.Graph, path []partition.ID) (partition.ID, [][]tracegraph.NodeID, bool) {
	for _, pid := range path {
		p := pg.Partition(pid)
		if p == nil || len(p.Members) < 2 {
			continue
		}
		groups := groupBySignature(pg, p)
		if len(groups) > 1 {
			return pid, groups, true
		}
	}
	return 0, nil, false
}

// groupBySignature partitions p's members by the set of (relation,
// successor-partition) pairs their underlying node transitions to, in
// first-seen order.
func groupBySignature(pg *partition.Graph, p *partition.Partition) [][]tracegraph.NodeID {
	order := make([]string, 0, len(p.Members))
	buckets := make(map[string][]tracegraph.NodeID)

	for _, n := range p.Members {
		sig := signatureOf(pg, n)
		if _, ok := buckets[sig]; !ok {
			order = append(order, sig)
		}
		buckets[sig] = append(buckets[sig], n)
	}

	groups := make([][]tracegraph.NodeID, 0, len(order))
	for _, sig := range order {
		groups = append(groups, buckets[sig])
	}
	return groups
}

func signatureOf(pg *partition.Graph, n tracegraph.NodeID) string {
	node := pg.Underlying.Node(n)
	parts := make([]string, 0, len(node.Out))
	for _, tr := range node.Out {
		target, _ := pg.PartitionOf(tr.Target)
		rels := tr.Relations.ToSlice()
		sort.Strings(rels)
		parts = append(parts, strings.Join(rels, ",")+fmt.Sprintf("->%d", target))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}
