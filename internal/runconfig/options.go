// Package runconfig defines the explicit configuration passed into every
// top-level mining entry point, in place of a process-wide mutable handle
// for logger, options, and formatter. Nothing in internal/event,
// internal/tracegraph, internal/relpath, internal/invariant,
// internal/partition, internal/ktails, internal/refine, or internal/coarsen
// reads ambient global state; every one of them takes an *Options value (or
// the specific fields it needs) as an argument.
package runconfig

import "fmt"

// Options is the full configuration surface recognized by the mining
// driver.
type Options struct {
	// K is used both by the k-tails quotient (ktails.PerformKTails) and by
	// the coarsening engine's candidate-pair filter.
	K int `yaml:"k"`

	// UseTransitiveClosureMining switches the invariant miner from
	// path-walking (ChainWalkingMiner) to closure-based
	// (TransitiveClosureMiner). The closure miner never derives IntrBy.
	UseTransitiveClosureMining bool `yaml:"useTransitiveClosureMining"`

	// MultipleRelations enables per-relation independent mining and
	// bi-relational relation paths when the primary relation differs from
	// the ordering relation.
	MultipleRelations bool `yaml:"multipleRelations"`

	// MineNeverConcurrentWith enables NeverConcurrent mining for DAG trace
	// graphs.
	MineNeverConcurrentWith bool `yaml:"mineNeverConcurrentWith"`

	// SupportCountThreshold drops invariants whose support count is at or
	// below this value. Zero disables the filter.
	SupportCountThreshold int `yaml:"supportCountThreshold"`

	// IgnoreIntrBy omits InterruptedBy from the mined invariant set.
	IgnoreIntrBy bool `yaml:"ignoreIntrBy"`

	// IgnoreInvsOverETypeSet drops any invariant all of whose operand
	// event types lie in this set.
	IgnoreInvsOverETypeSet []string `yaml:"ignoreInvsOverETypeSet"`

	// TraceNormalization makes mining.Run also report each timed node's
	// event time rescaled to [0,1] within its trace (event.NormalizeTrace),
	// in Result.NormalizedTimes; the mined graph itself is not altered.
	TraceNormalization bool `yaml:"traceNormalization"`

	// Relation is the primary relation mined over; defaults to "t".
	Relation string `yaml:"relation"`

	// LogLevel is a default log level. It is loaded with the other options
	// but the CLI driver does not read it; logging is initialized from the
	// --log-level flags.
	LogLevel string `yaml:"logLevel"`

	// LogLevelPackages holds per-package level overrides, e.g.
	// {"coarsen.*": "debug"}. Like LogLevel, it is loaded but not read by
	// the CLI driver.
	LogLevelPackages map[string]string `yaml:"logLevelPackages"`
}

// Default returns the zero-value-safe option set: k=1, chain-walking miner,
// single relation, no filtering.
func Default() *Options {
	return &Options{
		K:        1,
		Relation: "t",
		LogLevel: "info",
	}
}

// Validate reports a ConfigError if the option set is unusable.
func (o *Options) Validate() error {
	if o.K < 1 {
		return &ConfigError{message: "k must be at least 1"}
	}
	if o.Relation == "" {
		return &ConfigError{message: "relation must not be empty"}
	}
	if o.SupportCountThreshold < 0 {
		return &ConfigError{message: "supportCountThreshold must not be negative"}
	}
	return nil
}

// IgnoredEventTypeSet returns IgnoreInvsOverETypeSet as a lookup set.
func (o *Options) IgnoredEventTypeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.IgnoreInvsOverETypeSet))
	for _, t := range o.IgnoreInvsOverETypeSet {
		set[t] = struct{}{}
	}
	return set
}

// ConfigError represents a configuration error.
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return e.message
}

// String renders the option set for diagnostic logging.
func (o *Options) String() string {
	return fmt.Sprintf(
		"k=%d closure=%v multiRel=%v neverConcurrent=%v supportThreshold=%d ignoreIntrBy=%v normalize=%v",
		o.K, o.UseTransitiveClosureMining, o.MultipleRelations, o.MineNeverConcurrentWith,
		o.SupportCountThreshold, o.IgnoreIntrBy, o.TraceNormalization,
	)
}
