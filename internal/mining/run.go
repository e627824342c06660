// Package mining wires every mining-pipeline component into one driver:
// relation-path walking or transitive-closure reachability to mine
// invariants over the ground-truth trace graph, k-tails to seed a partition
// graph, counterexample-guided refinement to make it faithful, and greedy
// coarsening to make it small again.
package mining

import (
	"context"
	"fmt"

	"github.com/moolen/eventmodel/internal/coarsen"
	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/invariant"
	"github.com/moolen/eventmodel/internal/ktails"
	"github.com/moolen/eventmodel/internal/logging"
	"github.com/moolen/eventmodel/internal/partition"
	"github.com/moolen/eventmodel/internal/refine"
	"github.com/moolen/eventmodel/internal/relpath"
	"github.com/moolen/eventmodel/internal/runconfig"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

var logger = logging.GetLogger("mining")

// Result is everything one mining run produces.
type Result struct {
	Invariants []invariant.Invariant
	Model      *partition.Graph

	RefineOps            []partition.Operation
	CoarsenOps           []partition.Operation
	UnresolvedInvariants []invariant.Invariant

	// NormalizedTimes holds each node's [0,1]-rescaled position within its
	// own trace, populated only when opts.TraceNormalization is set. It is
	// a side channel for export/visualization; no mining step here reads
	// event time at all, so normalization never changes what gets mined.
	NormalizedTimes map[tracegraph.NodeID]float64
}

// maxOperationsPerNode bounds both the refinement and coarsening loops, in
// proportion to graph size, so a pathological input can't spin forever.
const maxOperationsPerNode = 4

// Run executes the full mining pipeline over g according to opts.
func Run(ctx context.Context, g *tracegraph.Graph, opts *runconfig.Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("mining: invalid options: %w", err)
	}
	log := logger.WithContext(ctx)
	log.InfoWithFields("starting mining run", logging.Field("options", opts.String()), logging.Field("shape", g.Shape.String()))

	invs, err := mineInvariants(g, opts)
	if err != nil {
		return nil, fmt.Errorf("mining: invariant mining: %w", err)
	}
	log.InfoWithFields("mined invariants", logging.Field("count", len(invs)))

	if opts.MineNeverConcurrentWith && g.Shape == tracegraph.DAGs {
		cm := invariant.ConcurrencyMiner{
			SupportCountThreshold: opts.SupportCountThreshold,
			IgnoreTypes:           ignoreTypeSet(g, opts),
		}
		invs = append(invs, cm.Mine(g, nil)...)
	}

	seed, err := ktails.PerformKTails(g, opts.Relation, opts.K)
	if err != nil {
		return nil, fmt.Errorf("mining: seeding partition graph: %w", err)
	}
	log.InfoWithFields("seeded partition graph", logging.Field("partitions", seed.NumPartitions()))

	budget := g.NumNodes() * maxOperationsPerNode

	refineOps, unresolved, err := refine.Refine(seed, invs, budget)
	if err != nil {
		return nil, fmt.Errorf("mining: refinement: %w", err)
	}
	log.InfoWithFields("refined partition graph",
		logging.Field("splits", len(refineOps)),
		logging.Field("unresolved", len(unresolved)),
		logging.Field("partitions", seed.NumPartitions()),
	)

	coarsenOps, err := coarsen.Coarsen(seed, invs, opts.Relation, opts.K, budget)
	if err != nil {
		return nil, fmt.Errorf("mining: coarsening: %w", err)
	}
	log.InfoWithFields("coarsened partition graph",
		logging.Field("merges", len(coarsenOps)),
		logging.Field("partitions", seed.NumPartitions()),
	)

	result := &Result{
		Invariants:           invs,
		Model:                seed,
		RefineOps:            refineOps,
		CoarsenOps:           coarsenOps,
		UnresolvedInvariants: unresolved,
	}

	if opts.TraceNormalization {
		result.NormalizedTimes = normalizedTimes(g)
	}

	return result, nil
}

// mineInvariants dispatches to the transitive-closure miner when
// opts.UseTransitiveClosureMining is set or g is DAGs-shaped, and to the
// chain-walking miner otherwise, over every relation the graph
// carries when opts.MultipleRelations is set, or just opts.Relation
// otherwise.
func mineInvariants(g *tracegraph.Graph, opts *runconfig.Options) ([]invariant.Invariant, error) {
	relations := []string{opts.Relation}
	if opts.MultipleRelations {
		relations = g.Relations()
	}

	var out []invariant.Invariant
	for _, rel := range relations {
		if opts.UseTransitiveClosureMining || g.Shape == tracegraph.DAGs {
			cm := invariant.TransitiveClosureMiner{
				SupportCountThreshold: opts.SupportCountThreshold,
				IgnoreTypes:           ignoreTypeSet(g, opts),
			}
			out = append(out, cm.Mine(g)...)
			continue
		}

		paths := make([]*relpath.RelationPath, len(g.Traces))
		for i, tr := range g.Traces {
			paths[i] = relpath.New(g, tr, rel, opts.Relation)
		}
		cw := invariant.ChainWalkingMiner{
			IgnoreIntrBy:          opts.IgnoreIntrBy,
			SupportCountThreshold: opts.SupportCountThreshold,
			IgnoreTypes:           ignoreTypeSet(g, opts),
		}
		invs, err := cw.Mine(paths)
		if err != nil {
			return nil, err
		}
		out = append(out, invs...)
	}
	return out, nil
}

func ignoreTypeSet(g *tracegraph.Graph, opts *runconfig.Options) map[event.EventType]struct{} {
	labels := opts.IgnoredEventTypeSet()
	if len(labels) == 0 {
		return nil
	}
	out := make(map[event.EventType]struct{})
	for _, n := range g.Nodes() {
		if _, ok := labels[n.Type().Label]; ok {
			out[n.Type()] = struct{}{}
		}
	}
	return out
}

func normalizedTimes(g *tracegraph.Graph) map[tracegraph.NodeID]float64 {
	out := make(map[tracegraph.NodeID]float64)
	for _, tr := range g.Traces {
		times := make([]event.Time, 0, len(tr.Nodes))
		timed := make([]tracegraph.NodeID, 0, len(tr.Nodes))
		for _, id := range tr.Nodes {
			n := g.Node(id)
			if n.Event.HasTime {
				times = append(times, n.Event.Time)
				timed = append(timed, id)
			}
		}
		normalized := event.NormalizeTrace(times)
		for i, id := range timed {
			out[id] = normalized[i]
		}
	}
	return out
}
