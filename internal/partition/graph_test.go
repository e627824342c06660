package partition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/partition"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

func ev(label string) event.Event {
	return event.Event{Type: event.New(label)}
}

// onePartitionPerType assigns every node with the same event type to the
// same partition id, giving a small, deterministic partition graph to test
// against.
func onePartitionPerType(g *tracegraph.Graph) map[tracegraph.NodeID]partition.ID {
	ids := make(map[event.EventType]partition.ID)
	next := partition.ID(0)
	assignment := make(map[tracegraph.NodeID]partition.ID)
	for _, node := range g.Nodes() {
		t := node.Type()
		id, ok := ids[t]
		if !ok {
			id = next
			next++
			ids[t] = id
		}
		assignment[node.ID] = id
	}
	return assignment
}

func buildSimple(t *testing.T) (*tracegraph.Graph, *partition.Graph) {
	t.Helper()
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b"), ev("c")}},
		{Events: []event.Event{ev("a"), ev("b")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	pg, err := partition.InitializeFrom(g, onePartitionPerType(g))
	require.NoError(t, err)
	return g, pg
}

func TestInitializeFrom_InducesEdgesFromMemberTransitions(t *testing.T) {
	_, pg := buildSimple(t)

	assignment := func(label string) partition.ID {
		for _, p := range pg.Partitions() {
			if len(p.Members) > 0 && p.Type(pg.Underlying).Label == label {
				return p.ID
			}
		}
		t.Fatalf("no partition for %q", label)
		return -1
	}

	a, b, c := assignment("a"), assignment("b"), assignment("c")

	out := pg.Out(a)
	require.Len(t, out, 1)
	assert.Equal(t, b, out[0].Target)

	out = pg.Out(b)
	require.Len(t, out, 2, "b leads to c in trace 1 and straight to TERMINAL in trace 2")
	targets := []partition.ID{out[0].Target, out[1].Target}
	assert.Contains(t, targets, c)
}

func TestMerge_ThenInverseRestoresOriginalPartitions(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b")}},
		{Events: []event.Event{ev("a"), ev("c")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	assignment := make(map[tracegraph.NodeID]partition.ID)
	for i, n := range g.Nodes() {
		assignment[n.ID] = partition.ID(i)
	}
	pg, err := partition.InitializeFrom(g, assignment)
	require.NoError(t, err)
	before := pg.NumPartitions()

	var aID1, aID2 partition.ID
	found := 0
	for _, p := range pg.Partitions() {
		if p.Type(pg.Underlying).Label == "a" {
			if found == 0 {
				aID1 = p.ID
			} else {
				aID2 = p.ID
			}
			found++
		}
	}
	require.Equal(t, 2, found, "both traces contribute a distinct \"a\" partition")

	op := &partition.Merge{A: aID1, B: aID2}
	require.NoError(t, op.Apply(pg))
	assert.Equal(t, before-1, pg.NumPartitions())
	assert.Nil(t, pg.Partition(aID2))

	inv := op.Inverse()
	require.NoError(t, inv.Apply(pg))
	assert.Equal(t, before, pg.NumPartitions())

	restored := pg.Partition(aID1)
	require.NotNil(t, restored)
	assert.Len(t, restored.Members, 1)
	restoredA2 := pg.Partition(aID2)
	require.NotNil(t, restoredA2)
	assert.Len(t, restoredA2.Members, 1)
}

func TestMultiSplit_ThenInverseRestoresOriginalPartition(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b")}},
		{Events: []event.Event{ev("a"), ev("c")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	pg, err := partition.InitializeFrom(g, onePartitionPerType(g))
	require.NoError(t, err)

	var aID partition.ID
	for _, p := range pg.Partitions() {
		if p.Type(pg.Underlying).Label == "a" {
			aID = p.ID
		}
	}
	original := append([]tracegraph.NodeID(nil), pg.Partition(aID).Members...)
	require.Len(t, original, 2)

	split := &partition.MultiSplit{
		Target: aID,
		Groups: [][]tracegraph.NodeID{{original[0]}, {original[1]}},
	}
	require.NoError(t, split.Apply(pg))
	require.NotNil(t, pg.Partition(aID))
	assert.Len(t, pg.Partition(aID).Members, 1)

	before := pg.NumPartitions()
	inv := split.Inverse()
	require.NoError(t, inv.Apply(pg))
	assert.Equal(t, before-1, pg.NumPartitions())

	restored := pg.Partition(aID)
	require.NotNil(t, restored)
	assert.ElementsMatch(t, original, restored.Members)
}
