// Package export renders the mining core's read-only results for the
// outside world: the invariant file as plain text, and a minimal JSON view
// of a trace graph or partition graph. Neither writer interprets or
// transforms what it's given; they are the seam the core hands its results
// through, not a rendering engine.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/moolen/eventmodel/internal/invariant"
)

// WriteInvariants writes one invariant per line, in the
// "<left> <kind> <right> [support=N]" format, sorted for a stable diff
// across runs: by kind, then left, then right.
func WriteInvariants(w io.Writer, invs []invariant.Invariant) error {
	sorted := append([]invariant.Invariant(nil), invs...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Left != b.Left {
			return a.Left.String() < b.Left.String()
		}
		return a.Right.String() < b.Right.String()
	})

	for _, inv := range sorted {
		if _, err := fmt.Fprintln(w, inv.String()); err != nil {
			return fmt.Errorf("export: writing invariant %q: %w", inv.String(), err)
		}
	}
	return nil
}
