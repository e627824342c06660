package partition

import (
	"fmt"

	"github.com/moolen/eventmodel/internal/tracegraph"
)

// Graph is a partition graph over some underlying tracegraph.Graph: a
// quotient of the event-node graph by a (possibly evolving) equivalence
// relation. Induced edges are cached and recomputed lazily after a
// structural change.
type Graph struct {
	Underlying *tracegraph.Graph

	partitions map[ID]*Partition
	memberOf   map[tracegraph.NodeID]ID
	nextID     ID

	Initial  ID
	Terminal ID

	out   map[ID][]Edge
	dirty bool
}

// InitializeFrom builds a Graph from an explicit node-to-partition
// assignment. Every node of underlying must appear exactly once.
func InitializeFrom(underlying *tracegraph.Graph, assignment map[tracegraph.NodeID]ID) (*Graph, error) {
	g := &Graph{
		Underlying: underlying,
		partitions: make(map[ID]*Partition),
		memberOf:   make(map[tracegraph.NodeID]ID),
	}

	groups := make(map[ID][]tracegraph.NodeID)
	for _, node := range underlying.Nodes() {
		pid, ok := assignment[node.ID]
		if !ok {
			return nil, fmt.Errorf("partition: node %d has no partition assignment", node.ID)
		}
		groups[pid] = append(groups[pid], node.ID)
		if pid >= g.nextID {
			g.nextID = pid + 1
		}
	}

	for pid, members := range groups {
		g.partitions[pid] = &Partition{ID: pid, Members: members}
		for _, n := range members {
			g.memberOf[n] = pid
		}
	}

	g.Initial = assignment[underlying.Initial]
	g.Terminal = assignment[underlying.Terminal]
	g.markDirty()
	return g, nil
}

// Partition returns the partition with id, or nil if none exists.
func (g *Graph) Partition(id ID) *Partition {
	return g.partitions[id]
}

// PartitionOf returns the id of the partition containing node.
func (g *Graph) PartitionOf(node tracegraph.NodeID) (ID, bool) {
	id, ok := g.memberOf[node]
	return id, ok
}

// Partitions returns every partition, in no particular order.
func (g *Graph) Partitions() []*Partition {
	out := make([]*Partition, 0, len(g.partitions))
	for _, p := range g.partitions {
		out = append(out, p)
	}
	return out
}

// NumPartitions returns the number of partitions currently in the graph.
func (g *Graph) NumPartitions() int {
	return len(g.partitions)
}

// Out returns the induced outgoing edges of the partition with id,
// recomputing the full induced-edge cache first if it is stale.
func (g *Graph) Out(id ID) []Edge {
	g.ensureEdges()
	return g.out[id]
}

func (g *Graph) markDirty() {
	g.dirty = true
}

// ensureEdges recomputes induced edges for every partition, by scanning
// each underlying node's transitions and projecting both endpoints through
// the current partition assignment.
func (g *Graph) ensureEdges() {
	if !g.dirty {
		return
	}

	out := make(map[ID][]Edge, len(g.partitions))
	targetIndex := make(map[ID]map[ID]int)

	for _, node := range g.Underlying.Nodes() {
		src, ok := g.memberOf[node.ID]
		if !ok {
			continue
		}
		for _, tr := range node.Out {
			dst, ok := g.memberOf[tr.Target]
			if !ok {
				continue
			}
			idx, ok := targetIndex[src]
			if !ok {
				idx = make(map[ID]int)
				targetIndex[src] = idx
			}
			if pos, ok := idx[dst]; ok {
				out[src][pos].Relations = out[src][pos].Relations.Union(tr.Relations)
				continue
			}
			idx[dst] = len(out[src])
			out[src] = append(out[src], Edge{Target: dst, Relations: tr.Relations.Clone()})
		}
	}

	g.out = out
	g.dirty = false
}

// allocID returns a fresh, never-before-used partition ID.
func (g *Graph) allocID() ID {
	id := g.nextID
	g.nextID++
	return id
}
