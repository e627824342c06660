package relpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/relpath"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

func ev(label string) event.Event {
	return event.Event{Type: event.New(label)}
}

func TestRelationPath_SimpleChain(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b"), ev("c")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	p := relpath.New(g, g.Traces[0], tracegraph.DefaultRelation, tracegraph.DefaultRelation)
	require.NoError(t, p.Err())

	assert.True(t, p.ConnectedToStart())
	assert.Equal(t, 3, p.Seen().Cardinality())

	a, b, c := event.New("a"), event.New("b"), event.New("c")
	count, ok := p.EventCounts().Get(a)
	require.True(t, ok)
	assert.Equal(t, 1, count)

	assert.Equal(t, 1, p.FollowedBy(a, b))
	assert.Equal(t, 1, p.FollowedBy(a, c))
	assert.Equal(t, 1, p.FollowedBy(b, c))
	assert.Equal(t, 0, p.FollowedBy(b, a))

	assert.Equal(t, 1, p.Precedes(a, c))
	assert.Equal(t, 1, p.Precedes(b, c))

	first, ok := p.First()
	require.True(t, ok)
	assert.Equal(t, "a", g.Node(first).Type().Label)

	last, ok := p.Last()
	require.True(t, ok)
	assert.Equal(t, "c", g.Node(last).Type().Label)
}

func TestRelationPath_PossibleInterruptsIntersectsAcrossRecurrences(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b"), ev("a"), ev("b"), ev("a")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	p := relpath.New(g, g.Traces[0], tracegraph.DefaultRelation, tracegraph.DefaultRelation)
	require.NoError(t, p.Err())

	interrupts := p.PossibleInterrupts(event.New("a"))
	assert.True(t, interrupts.ContainsOne(event.New("b")))
	assert.Equal(t, 1, interrupts.Cardinality())
}

func TestRelationPath_PossibleInterruptsEmptyWhenWindowsDisagree(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{Events: []event.Event{ev("a"), ev("b"), ev("a"), ev("c"), ev("a")}},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	p := relpath.New(g, g.Traces[0], tracegraph.DefaultRelation, tracegraph.DefaultRelation)
	require.NoError(t, p.Err())

	interrupts := p.PossibleInterrupts(event.New("a"))
	assert.Equal(t, 0, interrupts.Cardinality())
}

func TestRelationPath_FallbackToOrderingMarksNotConnectedToStart(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{
			Events:         []event.Event{ev("a"), ev("b"), ev("c")},
			ExtraRelations: []tracegraph.ExtraRelation{{From: 1, To: 2, Relation: "causal"}},
		},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	p := relpath.New(g, g.Traces[0], "causal", tracegraph.DefaultRelation)
	require.NoError(t, p.Err())

	assert.False(t, p.ConnectedToStart(), "INITIAL only ever connects on the ordering relation")

	first, ok := p.First()
	require.True(t, ok)
	assert.Equal(t, "a", g.Node(first).Type().Label, "every non-sentinel node is walked, regardless of which relation advanced the cursor")
}

func TestRelationPath_BranchingOnPrimaryRelationIsIllFormed(t *testing.T) {
	g, err := tracegraph.BuildChains([]tracegraph.ChainTrace{
		{
			Events: []event.Event{ev("a"), ev("b"), ev("c"), ev("d")},
			ExtraRelations: []tracegraph.ExtraRelation{
				{From: 0, To: 2, Relation: "causal"},
				{From: 0, To: 3, Relation: "causal"},
			},
		},
	}, tracegraph.DefaultRelation)
	require.NoError(t, err)

	p := relpath.New(g, g.Traces[0], "causal", tracegraph.DefaultRelation)
	err = p.Err()
	require.Error(t, err)
	var wfErr *relpath.WellFormednessError
	assert.ErrorAs(t, err, &wfErr)
}
