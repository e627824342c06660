package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/export"
	"github.com/moolen/eventmodel/internal/invariant"
	"github.com/moolen/eventmodel/internal/partition"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

func ev(label string) event.Event {
	return event.Event{Type: event.New(label)}
}

func TestWriteInvariants_DeterministicOrder(t *testing.T) {
	invs := []invariant.Invariant{
		{Left: event.New("c"), Kind: invariant.NFby, Right: event.New("d"), Support: 1},
		{Left: event.New("a"), Kind: invariant.AFby, Right: event.New("b"), Support: 3},
		{Left: event.New("a"), Kind: invariant.AFby, Right: event.New("a2"), Support: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteInvariants(&buf, invs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "AFby")
	assert.Contains(t, lines[2], "NFby")
}

func TestWriteGraph_RoundTripsNodesAndEdges(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteGraph(&buf, g))
	assert.Contains(t, buf.String(), `"eventType": "a"`)
	assert.Contains(t, buf.String(), `"isInitial": true`)
}

func TestWritePartitionGraph_RoundTripsPartitionsAndEdges(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	assignment := make(map[tracegraph.NodeID]partition.ID)
	for i, n := range g.Nodes() {
		assignment[n.ID] = partition.ID(i)
	}
	pg, err := partition.InitializeFrom(g, assignment)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WritePartitionGraph(&buf, pg))
	assert.Contains(t, buf.String(), `"eventType": "a"`)
}
