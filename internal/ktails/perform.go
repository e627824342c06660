package ktails

import (
	"github.com/moolen/eventmodel/internal/partition"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// unionFind is a plain disjoint-set structure over NodeIDs, used to collect
// the equivalence classes KEquals defines.
type unionFind struct {
	parent []tracegraph.NodeID
}

func newUnionFind(n int) *unionFind {
	parent := make([]tracegraph.NodeID, n)
	for i := range parent {
		parent[i] = tracegraph.NodeID(i)
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x tracegraph.NodeID) tracegraph.NodeID {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b tracegraph.NodeID) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// PerformKTails groups every node of graph into k-tail equivalence classes
// under relation, and returns the resulting partition graph: the seed
// model before any invariant-guided refinement.
func PerformKTails(graph *tracegraph.Graph, relation string, k int) (*partition.Graph, error) {
	n := graph.NumNodes()
	checker := NewChecker(graph, relation, n*n+1)
	uf := newUnionFind(n)

	nodes := graph.Nodes()
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i].ID, nodes[j].ID
			if uf.find(a) == uf.find(b) {
				continue
			}
			if checker.KEquals(a, b, k) {
				uf.union(a, b)
			}
		}
	}

	rootToPartition := make(map[tracegraph.NodeID]partition.ID)
	assignment := make(map[tracegraph.NodeID]partition.ID, n)
	var next partition.ID
	for _, node := range nodes {
		root := uf.find(node.ID)
		pid, ok := rootToPartition[root]
		if !ok {
			pid = next
			next++
			rootToPartition[root] = pid
		}
		assignment[node.ID] = pid
	}

	return partition.InitializeFrom(graph, assignment)
}
