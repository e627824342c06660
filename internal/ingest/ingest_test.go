package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/eventmodel/internal/ingest"
)

func TestBuildTraces_GroupsLinesByProcess(t *testing.T) {
	lines := []ingest.Line{
		{Raw: "request id=1", Process: "web"},
		{Raw: "response id=1 status=200", Process: "web"},
		{Raw: "request id=2", Process: "worker"},
		{Raw: "response id=2 status=200", Process: "worker"},
	}

	traces, err := ingest.BuildTraces(lines, ingest.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Len(t, traces[0].Events, 2)
	assert.Len(t, traces[1].Events, 2)
}

func TestBuildTraces_MasksVariablePayloadsToSameEventType(t *testing.T) {
	lines := []ingest.Line{
		{Raw: "connected to 10.0.0.1", Process: "svc"},
		{Raw: "connected to 10.0.0.2", Process: "svc"},
	}

	traces, err := ingest.BuildTraces(lines, ingest.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, traces, 1)
	require.Len(t, traces[0].Events, 2)
	assert.Equal(t, traces[0].Events[0].Type, traces[0].Events[1].Type,
		"two connects to different IPs must collapse to the same event type")
}

func TestBuildTraces_UnrelatedLinesProduceDistinctEventTypes(t *testing.T) {
	lines := []ingest.Line{
		{Raw: "connected to 10.0.0.1", Process: "svc"},
		{Raw: "shutting down worker pool", Process: "svc"},
	}

	traces, err := ingest.BuildTraces(lines, ingest.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, traces, 1)
	require.Len(t, traces[0].Events, 2)
	assert.NotEqual(t, traces[0].Events[0].Type, traces[0].Events[1].Type,
		"two structurally unrelated log lines must not collapse to one event type")
}
