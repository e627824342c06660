package coarsen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/eventmodel/internal/coarsen"
	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/invariant"
	"github.com/moolen/eventmodel/internal/partition"
	"github.com/moolen/eventmodel/internal/relpath"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

func ev(label string) event.Event {
	return event.Event{Type: event.New(label)}
}

func bijectiveAssignment(g *tracegraph.Graph) map[tracegraph.NodeID]partition.ID {
	assignment := make(map[tracegraph.NodeID]partition.ID)
	for i, n := range g.Nodes() {
		assignment[n.ID] = partition.ID(i)
	}
	return assignment
}

func mineInvariants(t *testing.T, g *tracegraph.Graph) []invariant.Invariant {
	t.Helper()
	paths := make([]*relpath.RelationPath, len(g.Traces))
	for i, tr := range g.Traces {
		paths[i] = relpath.New(g, tr, tracegraph.DefaultRelation, tracegraph.DefaultRelation)
	}
	invs, err := (invariant.ChainWalkingMiner{}).Mine(paths)
	require.NoError(t, err)
	return invs
}

func TestCoarsen_MergesPartitionsThatKeepEveryInvariant(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b"), ev("c")}},
		{Events: []event.Event{ev("a"), ev("b"), ev("c")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	invs := mineInvariants(t, g)
	require.NotEmpty(t, invs)

	pg, err := partition.InitializeFrom(g, bijectiveAssignment(g))
	require.NoError(t, err)
	before := pg.NumPartitions()

	ops, err := coarsen.Coarsen(pg, invs, tracegraph.DefaultRelation, 3, 10)
	require.NoError(t, err)
	require.NotEmpty(t, ops, "two identical traces should merge down to a shared model")
	assert.Less(t, pg.NumPartitions(), before)

	for _, inv := range invs {
		_, violated := partition.GetCounterexample(pg, inv)
		assert.False(t, violated, "coarsening must never reintroduce a counterexample: %s", inv.String())
	}
}

func TestCoarsen_NeverMergesAcrossDifferentEventTypes(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	pg, err := partition.InitializeFrom(g, bijectiveAssignment(g))
	require.NoError(t, err)
	before := pg.NumPartitions()

	ops, err := coarsen.Coarsen(pg, nil, tracegraph.DefaultRelation, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, ops, "a and b are different types and the only two non-sentinel partitions present, so nothing can merge")
	assert.Equal(t, before, pg.NumPartitions())
}
