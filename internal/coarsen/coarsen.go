// Package coarsen implements greedy invariant-preserving partition merging:
// the pass that runs after refinement has produced a model faithful to the
// mined invariants, looking for partitions of the same event type that can
// be merged back together without reintroducing a counterexample.
package coarsen

import (
	"sort"

	"github.com/moolen/eventmodel/internal/invariant"
	"github.com/moolen/eventmodel/internal/ktails"
	"github.com/moolen/eventmodel/internal/partition"
)

// Coarsen mutates pg in place, repeatedly merging partition pairs of
// identical event type that are k-tails equivalent (under relation, for the
// given k) and whose merge introduces no counterexample against invs, up to
// maxIterations successful merges. It returns every Merge actually kept.
func Coarsen(pg *partition.Graph, invs []invariant.Invariant, relation string, k, maxIterations int) ([]partition.Operation, error) {
	var ops []partition.Operation
	n := pg.Underlying.NumNodes()
	checker := ktails.NewChecker(pg.Underlying, relation, n*n+1)

	for iter := 0; iter < maxIterations; iter++ {
		a, b, ok := findMergeCandidate(pg, invs, checker, k)
		if !ok {
			break
		}

		op := &partition.Merge{A: a, B: b}
		if err := op.Apply(pg); err != nil {
			return ops, err
		}
		ops = append(ops, op)
	}

	return ops, nil
}

// findMergeCandidate scans every same-typed, k-equivalent partition pair, in
// ID order for determinism, and returns the first pair whose tentative merge
// survives every invariant check. The merge is applied speculatively and
// rolled back immediately if it doesn't survive.
func findMergeCandidate(pg *partition.Graph, invs []invariant.Invariant, checker *ktails.Checker, k int) (partition.ID, partition.ID, bool) {
	ids := sortedPartitionIDs(pg)

	for i := 0; i < len(ids); i++ {
		pa := pg.Partition(ids[i])
		if pa == nil || len(pa.Members) == 0 {
			continue
		}
		ta := pa.Type(pg.Underlying)

		for j := i + 1; j < len(ids); j++ {
			pb := pg.Partition(ids[j])
			if pb == nil || len(pb.Members) == 0 {
				continue
			}
			if pb.Type(pg.Underlying) != ta {
				continue
			}
			if !kEquivalentPartitions(pa, pb, checker, k) {
				continue
			}

			if survivesMerge(pg, ids[i], ids[j], invs) {
				return ids[i], ids[j], true
			}
		}
	}
	return 0, 0, false
}

// kEquivalentPartitions reports whether every member of pa is k-tails
// equivalent to every member of pb, the coarsening candidate filter
// configured by Options.K.
func kEquivalentPartitions(pa, pb *partition.Partition, checker *ktails.Checker, k int) bool {
	for _, ma := range pa.Members {
		for _, mb := range pb.Members {
			if !checker.KEquals(ma, mb, k) {
				return false
			}
		}
	}
	return true
}

func survivesMerge(pg *partition.Graph, a, b partition.ID, invs []invariant.Invariant) bool {
	op := &partition.Merge{A: a, B: b}
	if err := op.Apply(pg); err != nil {
		return false
	}

	for _, inv := range invs {
		if _, violated := partition.GetCounterexample(pg, inv); violated {
			op.Inverse().Apply(pg) //nolint:errcheck // Inverse of a just-applied Merge cannot fail.
			return false
		}
	}

	op.Inverse().Apply(pg) //nolint:errcheck
	return true
}

func sortedPartitionIDs(pg *partition.Graph) []partition.ID {
	parts := pg.Partitions()
	ids := make([]partition.ID, len(parts))
	for i, p := range parts {
		ids[i] = p.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
