package partition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/invariant"
	"github.com/moolen/eventmodel/internal/partition"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// buildOverCoarsePartition merges traces [a,b,c] and [a,d,e], deliberately
// lumping the b and d occurrences into one partition even though they have
// different event types and different futures. Reading the resulting
// partition graph as a model now admits a path leaving that partition
// straight to e, bypassing c entirely -- a path no real trace contains, so
// AFby(b, c) (true of the one real trace containing b) has a spurious
// counterexample in the partition graph.
func buildOverCoarsePartition(t *testing.T) (*tracegraph.Graph, *partition.Graph) {
	t.Helper()
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b"), ev("c")}},
		{Events: []event.Event{ev("a"), ev("d"), ev("e")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	assignment := make(map[tracegraph.NodeID]partition.ID)
	var bID, dID tracegraph.NodeID
	for _, n := range g.Nodes() {
		switch n.Type().Label {
		case "a":
			assignment[n.ID] = 0
		case "b":
			bID = n.ID
		case "d":
			dID = n.ID
		case "c":
			assignment[n.ID] = 2
		case "e":
			assignment[n.ID] = 3
		default:
			assignment[n.ID] = partition.ID(4 + int(n.ID))
		}
	}
	assignment[bID] = 1
	assignment[dID] = 1

	pg, err := partition.InitializeFrom(g, assignment)
	require.NoError(t, err)
	return g, pg
}

func TestGetCounterexample_AFbyViolatedByOverCoarsePartition(t *testing.T) {
	_, pg := buildOverCoarsePartition(t)

	inv := invariant.Invariant{Left: event.New("b"), Kind: invariant.AFby, Right: event.New("c"), Support: 1}
	cex, ok := partition.GetCounterexample(pg, inv)
	require.True(t, ok, "b's partition can reach TERMINAL without passing through c's, via the other trace's path")
	assert.NotEmpty(t, cex.Path)
	assert.Equal(t, inv.Key(), cex.Invariant)
}

func TestGetCounterexample_NoneWhenPartitionsAreFaithful(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b"), ev("c")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	assignment := make(map[tracegraph.NodeID]partition.ID)
	for i, n := range g.Nodes() {
		assignment[n.ID] = partition.ID(i)
	}
	pg, err := partition.InitializeFrom(g, assignment)
	require.NoError(t, err)

	inv := invariant.Invariant{Left: event.New("b"), Kind: invariant.AFby, Right: event.New("c"), Support: 1}
	_, ok := partition.GetCounterexample(pg, inv)
	assert.False(t, ok, "every node in its own partition exactly reproduces the trace, so no invariant mined from it can have a counterexample")
}
