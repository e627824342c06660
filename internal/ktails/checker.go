// Package ktails implements k-tails equivalence: two event nodes are
// k-equivalent when they share an event type and, recursively, every
// possible next k-1 steps of behavior from each can be matched against the
// other's. PerformKTails groups every node in a trace graph into k-tail
// equivalence classes and returns the resulting partition graph, the
// classic first model-inference pass before invariant-guided refinement.
package ktails

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/moolen/eventmodel/internal/tracegraph"
)

type cacheKey struct {
	a, b tracegraph.NodeID
	k    int
}

// Checker evaluates k-tails equivalence over one graph and one relation,
// memoizing results across repeated queries at the same (a, b, k).
type Checker struct {
	graph    *tracegraph.Graph
	relation string
	cache    *lru.Cache[cacheKey, bool]
}

// NewChecker returns a Checker with an LRU cache sized for cacheSize
// distinct (a, b, k) queries.
func NewChecker(graph *tracegraph.Graph, relation string, cacheSize int) *Checker {
	cache, _ := lru.New[cacheKey, bool](cacheSize)
	return &Checker{graph: graph, relation: relation, cache: cache}
}

// KEquals reports whether a and b are k-tails equivalent: same event type,
// and (for k > 0) every relation-successor of a can be matched, via
// (k-1)-equivalence, against a distinct relation-successor of b, with every
// successor of b covered in turn (reflexive: KEquals(a, a, k) is always
// true; symmetric: KEquals(a, b, k) == KEquals(b, a, k)).
func (c *Checker) KEquals(a, b tracegraph.NodeID, k int) bool {
	if a == b {
		return true
	}
	key := normalizedKey(a, b, k)
	if v, ok := c.cache.Get(key); ok {
		return v
	}

	result := c.compute(a, b, k)
	c.cache.Add(key, result)
	return result
}

// normalizedKey canonicalizes (a, b) so KEquals(a, b, k) and KEquals(b, a,
// k) share one cache entry.
func normalizedKey(a, b tracegraph.NodeID, k int) cacheKey {
	if a <= b {
		return cacheKey{a: a, b: b, k: k}
	}
	return cacheKey{a: b, b: a, k: k}
}

func (c *Checker) compute(a, b tracegraph.NodeID, k int) bool {
	na, nb := c.graph.Node(a), c.graph.Node(b)
	if na.Type() != nb.Type() {
		return false
	}
	if k == 0 {
		return true
	}

	aNext := na.TransitionsOn(c.relation)
	bNext := nb.TransitionsOn(c.relation)
	return c.matchAll(aNext, bNext, k-1)
}

// matchAll reports whether as and bs admit a perfect matching under
// (k)-equivalence: every element of as paired with a distinct element of
// bs such that the pair is k-equivalent, with no element of bs left over.
func (c *Checker) matchAll(as, bs []tracegraph.NodeID, k int) bool {
	if len(as) != len(bs) {
		return false
	}
	usedB := make([]bool, len(bs))

	var tryFrom func(i int) bool
	tryFrom = func(i int) bool {
		if i == len(as) {
			return true
		}
		for j, b := range bs {
			if usedB[j] {
				continue
			}
			if c.KEquals(as[i], b, k) {
				usedB[j] = true
				if tryFrom(i + 1) {
					return true
				}
				usedB[j] = false
			}
		}
		return false
	}
	return tryFrom(0)
}
