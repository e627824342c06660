package ingest

import (
	"github.com/moolen/eventmodel/internal/event"
	"github.com/moolen/eventmodel/internal/tracegraph"
)

// Line is one raw input log line, optionally tagged with the distributed
// process it came from and the order it occurred in.
type Line struct {
	Raw     string
	Process string

	// HasTime/Time timestamp this line for opts.TraceNormalization; the
	// chain-building order below is always
	// taken from input order, never re-sorted by Time.
	HasTime bool
	Time    event.Time
}

// BuildTraces tokenizes lines with a shared Tokenizer (so the same
// underlying event always gets the same event type, however many
// processes it's observed across) and groups them into one
// tracegraph.ChainTrace per distinct Process, in first-seen process order
// and original per-process line order.
func BuildTraces(lines []Line, cfg Config) ([]tracegraph.ChainTrace, error) {
	tok := NewTokenizer(cfg)

	var order []string
	byProcess := make(map[string][]event.Event)
	for _, l := range lines {
		if _, ok := byProcess[l.Process]; !ok {
			order = append(order, l.Process)
		}
		ev := event.Event{Type: tok.Classify(l.Raw, l.Process)}
		if l.HasTime {
			ev = ev.WithTime(l.Time)
		}
		byProcess[l.Process] = append(byProcess[l.Process], ev)
	}

	traces := make([]tracegraph.ChainTrace, 0, len(order))
	for _, p := range order {
		traces = append(traces, tracegraph.ChainTrace{Events: byProcess[p]})
	}
	return traces, nil
}
