// Package ingest tokenizes raw log lines into the internal/event sequences
// the mining core operates on. It is the out-of-scope-but-present
// collaborator: log parsing itself is not part of the mining algorithms,
// but a complete miner needs some way to turn text into events.
package ingest

import (
	"strings"

	"github.com/faceair/drain"

	"github.com/moolen/eventmodel/internal/event"
)

// Config controls how raw lines are clustered into event types.
type Config struct {
	// LogClusterDepth controls the depth of Drain's parse tree (minimum
	// 3, recommended 4). Deeper trees produce more specific templates at
	// the cost of memory.
	LogClusterDepth int

	// SimTh is Drain's similarity threshold: 0.3-0.5 for structured logs,
	// 0.5-0.6 for unstructured ones. Higher values demand closer matches,
	// so fewer lines merge into one template.
	SimTh float64

	// MaxChildren bounds branching per parse-tree node.
	MaxChildren int

	// MaxClusters bounds the total number of templates; 0 is unlimited.
	MaxClusters int

	// ExtraDelimiters are additional token separators beyond whitespace,
	// e.g. []string{"_", "="} for underscore- and key=value-shaped logs.
	ExtraDelimiters []string
}

// DefaultConfig returns a balanced configuration for general-purpose
// structured text logs.
func DefaultConfig() Config {
	return Config{
		LogClusterDepth: 4,
		SimTh:           0.4,
		MaxChildren:     100,
		MaxClusters:     0,
		ExtraDelimiters: []string{"_", "="},
	}
}

// Tokenizer clusters raw log lines into stable event types using the Drain
// algorithm, masking variable substrings so two occurrences of the same
// underlying event collapse to one event.EventType regardless of the
// specific values they carried.
type Tokenizer struct {
	drain *drain.Drain
}

// NewTokenizer returns a Tokenizer configured by cfg.
func NewTokenizer(cfg Config) *Tokenizer {
	return &Tokenizer{
		drain: drain.New(&drain.Config{
			LogClusterDepth: cfg.LogClusterDepth,
			SimTh:           cfg.SimTh,
			MaxChildren:     cfg.MaxChildren,
			MaxClusters:     cfg.MaxClusters,
			ExtraDelimiters: cfg.ExtraDelimiters,
			ParamString:     "<*>",
		}),
	}
}

// Classify trains on rawLog and returns the event.EventType of the template
// it belongs to, process-tagged when process is non-empty.
func (t *Tokenizer) Classify(rawLog, process string) event.EventType {
	cluster := t.drain.Train(preProcess(rawLog))
	pattern := normalizeWildcards(mask(extractPattern(cluster.String())))
	if process == "" {
		return event.New(pattern)
	}
	return event.NewProcessTagged(pattern, process)
}

// extractPattern pulls the template out of Drain's cluster.String() output,
// formatted as "id={X} : size={Y} : [pattern]".
func extractPattern(clusterStr string) string {
	lastSep := strings.LastIndex(clusterStr, " : ")
	if lastSep == -1 {
		return clusterStr
	}
	return strings.TrimSpace(clusterStr[lastSep+3:])
}
