package partition

import (
	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/invariant"
)

// Counterexample is a path through the partition graph that would violate
// inv if the partition graph were read back as a behavioral model, even
// though inv was mined from -- and holds over -- every real trace. Its
// existence means some partition on Path conflates event nodes that must
// be told apart to keep the model faithful to the invariant.
type Counterexample struct {
	Invariant invariant.Key
	Path      []ID
}

// GetCounterexample searches the partition graph for a path that would
// violate inv, for AFby, NFby and AP invariants (the kinds refinement can
// act on). It returns false if the partition graph currently honors inv.
func GetCounterexample(g *Graph, inv invariant.Invariant) (*Counterexample, bool) {
	switch inv.Kind {
	case invariant.AFby:
		return afbyCounterexample(g, inv)
	case invariant.NFby:
		return nfbyCounterexample(g, inv)
	case invariant.AP:
		return apCounterexample(g, inv)
	default:
		return nil, false
	}
}

// afbyCounterexample looks for a path, starting at a partition containing
// an occurrence of inv.Left, that reaches a dead end (no outgoing edges)
// without ever passing through a partition containing inv.Right.
func afbyCounterexample(g *Graph, inv invariant.Invariant) (*Counterexample, bool) {
	starts := partitionsOfType(g, inv.Left)
	for _, start := range starts {
		path, ok := searchAvoiding(g, start, inv.Right)
		if ok {
			return &Counterexample{Invariant: inv.Key(), Path: path}, true
		}
	}
	return nil, false
}

// nfbyCounterexample looks for a path from a partition containing inv.Left
// to one containing inv.Right.
func nfbyCounterexample(g *Graph, inv invariant.Invariant) (*Counterexample, bool) {
	starts := partitionsOfType(g, inv.Left)
	for _, start := range starts {
		path, ok := searchReaching(g, start, inv.Right)
		if ok {
			return &Counterexample{Invariant: inv.Key(), Path: path}, true
		}
	}
	return nil, false
}

// apCounterexample looks for a path from the Initial partition to one
// containing inv.Right that never passes through a partition containing
// inv.Left first.
func apCounterexample(g *Graph, inv invariant.Invariant) (*Counterexample, bool) {
	path, ok := searchReachingAvoidingFirst(g, g.Initial, inv.Right, inv.Left)
	if ok {
		return &Counterexample{Invariant: inv.Key(), Path: path}, true
	}
	return nil, false
}

func partitionsOfType(g *Graph, t event.EventType) []ID {
	var out []ID
	for _, p := range g.Partitions() {
		if len(p.Members) > 0 && p.Type(g.Underlying) == t {
			out = append(out, p.ID)
		}
	}
	return out
}

// searchAvoiding does a DFS from start, refusing to pass through any
// partition of type avoid, and reports a counterexample once it reaches a
// dead end (a partition with no outgoing edges) without having been forced
// to pass through avoid.
func searchAvoiding(g *Graph, start ID, avoid event.EventType) ([]ID, bool) {
	visited := make(map[ID]bool)
	var path []ID

	var dfs func(id ID) bool
	dfs = func(id ID) bool {
		if visited[id] {
			return false
		}
		visited[id] = true
		path = append(path, id)

		p := g.Partition(id)
		if p != nil && len(p.Members) > 0 && p.Type(g.Underlying) == avoid {
			path = path[:len(path)-1]
			return false
		}

		out := g.Out(id)
		if len(out) == 0 {
			return true
		}
		for _, e := range out {
			if dfs(e.Target) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if dfs(start) {
		return path, true
	}
	return nil, false
}

// searchReaching does a DFS from start looking for any partition of type
// target.
func searchReaching(g *Graph, start ID, target event.EventType) ([]ID, bool) {
	visited := make(map[ID]bool)
	var path []ID

	var dfs func(id ID) bool
	dfs = func(id ID) bool {
		if visited[id] {
			return false
		}
		visited[id] = true
		path = append(path, id)

		p := g.Partition(id)
		if p != nil && len(p.Members) > 0 && p.Type(g.Underlying) == target {
			return true
		}

		for _, e := range g.Out(id) {
			if dfs(e.Target) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if dfs(start) {
		return path, true
	}
	return nil, false
}

// searchReachingAvoidingFirst does a DFS from start looking for a partition
// of type target that is reached before any partition of type avoidFirst is
// seen on that same path.
func searchReachingAvoidingFirst(g *Graph, start ID, target, avoidFirst event.EventType) ([]ID, bool) {
	visited := make(map[ID]bool)
	var path []ID

	var dfs func(id ID) bool
	dfs = func(id ID) bool {
		if visited[id] {
			return false
		}
		visited[id] = true
		path = append(path, id)

		p := g.Partition(id)
		if p != nil && len(p.Members) > 0 {
			t := p.Type(g.Underlying)
			if t == target {
				return true
			}
			if t == avoidFirst {
				path = path[:len(path)-1]
				return false
			}
		}

		for _, e := range g.Out(id) {
			if dfs(e.Target) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if dfs(start) {
		return path, true
	}
	return nil, false
}
