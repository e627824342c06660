package export

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/moolen/eventmodel/internal/partition"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// NodeView is the read-only JSON projection of one trace-graph node.
type NodeView struct {
	ID         int    `json:"id"`
	EventType  string `json:"eventType"`
	IsInitial  bool   `json:"isInitial"`
	IsTerminal bool   `json:"isTerminal"`
}

// EdgeView is the read-only JSON projection of one trace-graph transition.
type EdgeView struct {
	SourceID  int      `json:"sourceId"`
	TargetID  int      `json:"targetId"`
	Relations []string `json:"relations"`
}

// GraphView is the full read-only JSON projection of a tracegraph.Graph.
type GraphView struct {
	Shape string     `json:"shape"`
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

// WriteGraph renders g's read-only view as JSON.
func WriteGraph(w io.Writer, g *tracegraph.Graph) error {
	view := GraphView{Shape: g.Shape.String()}
	for _, n := range g.Nodes() {
		view.Nodes = append(view.Nodes, NodeView{
			ID:         int(n.ID),
			EventType:  n.Type().String(),
			IsInitial:  n.ID == g.Initial,
			IsTerminal: n.ID == g.Terminal,
		})
		for _, tr := range n.Out {
			rels := tr.Relations.ToSlice()
			sort.Strings(rels)
			view.Edges = append(view.Edges, EdgeView{
				SourceID:  int(n.ID),
				TargetID:  int(tr.Target),
				Relations: rels,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// PartitionView is the read-only JSON projection of one partition.
type PartitionView struct {
	ID        int    `json:"id"`
	EventType string `json:"eventType"`
	Members   []int  `json:"members"`
}

// PartitionEdgeView is the read-only JSON projection of one induced
// partition-graph edge.
type PartitionEdgeView struct {
	SourceID  int      `json:"sourceId"`
	TargetID  int      `json:"targetId"`
	Relations []string `json:"relations"`
}

// PartitionGraphView is the full read-only JSON projection of a model.
type PartitionGraphView struct {
	Partitions []PartitionView     `json:"partitions"`
	Edges      []PartitionEdgeView `json:"edges"`
	InitialID  int                 `json:"initialId"`
	TerminalID int                 `json:"terminalId"`
}

// WritePartitionGraph renders pg's read-only view as JSON.
func WritePartitionGraph(w io.Writer, pg *partition.Graph) error {
	view := PartitionGraphView{
		InitialID:  int(pg.Initial),
		TerminalID: int(pg.Terminal),
	}
	parts := pg.Partitions()
	sort.Slice(parts, func(i, j int) bool { return parts[i].ID < parts[j].ID })
	for _, p := range parts {
		members := make([]int, len(p.Members))
		for i, m := range p.Members {
			members[i] = int(m)
		}
		view.Partitions = append(view.Partitions, PartitionView{
			ID:        int(p.ID),
			EventType: p.Type(pg.Underlying).String(),
			Members:   members,
		})
		for _, e := range pg.Out(p.ID) {
			rels := e.Relations.ToSlice()
			sort.Strings(rels)
			view.Edges = append(view.Edges, PartitionEdgeView{
				SourceID:  int(p.ID),
				TargetID:  int(e.Target),
				Relations: rels,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
