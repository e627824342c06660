package tracegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/eventmodel/internal/event"
)

// buildDivergentOrderingDAGs constructs two traces sharing the same causal
// skeleton (a precedes d, which both b and c sit between) but disagreeing on
// the labels of the two concurrent middle events, b and c, which swap
// clock positions across them:
//
//	trace 1: a@(1,0), b@(2,1), c@(1,2), d@(2,3)
//	trace 2: a@(1,0), c@(2,1), b@(1,2), d@(2,3)
func buildDivergentOrderingDAGs(t *testing.T) *Graph {
	t.Helper()
	g, err := BuildDAGs([]DAGTrace{
		{
			Events: []event.Event{newEvent("a"), newEvent("b"), newEvent("c"), newEvent("d")},
			Clocks: []VectorClock{{1, 0}, {2, 1}, {1, 2}, {2, 3}},
		},
		{
			Events: []event.Event{newEvent("a"), newEvent("c"), newEvent("b"), newEvent("d")},
			Clocks: []VectorClock{{1, 0}, {2, 1}, {1, 2}, {2, 3}},
		},
	}, DefaultRelation)
	require.NoError(t, err)
	return g
}

func TestBuildDAGs_DivergentOrderingAcrossTraces(t *testing.T) {
	g := buildDivergentOrderingDAGs(t)
	assert.Len(t, g.Traces, 2)
	assert.Equal(t, DAGs, g.Shape)

	for _, trace := range g.Traces {
		a := g.Node(trace.Nodes[0])
		assert.Equal(t, "a", a.Type().Label)
	}
}

func TestBuildDAGs_AcceptsConcurrentClocks(t *testing.T) {
	_, err := BuildDAGs([]DAGTrace{
		{
			Events: []event.Event{newEvent("a"), newEvent("b")},
			// Neither clock componentwise-dominates the other:
			// (2,1) vs (1,2) are concurrent, not cyclic.
			Clocks: []VectorClock{{2, 1}, {1, 2}},
		},
	}, DefaultRelation)
	// Concurrent clocks are valid (no edge at all); this is not a cycle.
	require.NoError(t, err)
}

func TestBuildDAGs_RejectsEmptyTrace(t *testing.T) {
	_, err := BuildDAGs([]DAGTrace{{Events: nil, Clocks: nil}}, DefaultRelation)
	require.Error(t, err)
}

func TestBuildDAGs_RejectsLengthMismatch(t *testing.T) {
	_, err := BuildDAGs([]DAGTrace{
		{Events: []event.Event{newEvent("a")}, Clocks: nil},
	}, DefaultRelation)
	require.Error(t, err)
}

func TestBuildDAGs_RejectsDuplicateClocks(t *testing.T) {
	_, err := BuildDAGs([]DAGTrace{
		{
			Events: []event.Event{newEvent("a"), newEvent("b")},
			Clocks: []VectorClock{{1, 0}, {1, 0}},
		},
	}, DefaultRelation)
	require.Error(t, err)
}

func TestBuildDAGs_LinearChainProducesHasseEdgesOnly(t *testing.T) {
	g, err := BuildDAGs([]DAGTrace{
		{
			Events: []event.Event{newEvent("a"), newEvent("b"), newEvent("c")},
			Clocks: []VectorClock{{1}, {2}, {3}},
		},
	}, DefaultRelation)
	require.NoError(t, err)

	a := g.Node(g.GetInitial().Out[0].Target)
	require.Len(t, a.Out, 1, "a should connect directly only to b, not transitively to c")
	assert.Equal(t, "b", g.Node(a.Out[0].Target).Type().Label)
}

func TestVectorClock_Concurrent(t *testing.T) {
	a := VectorClock{2, 1}
	b := VectorClock{1, 2}
	assert.True(t, a.Concurrent(b))
	assert.False(t, a.HappensBefore(b))
	assert.False(t, b.HappensBefore(a))
}
