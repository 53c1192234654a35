package analyzer

import "time"

// Options is the closed set of fields a caller may vary per analysis
// call, per spec.md §6.1. Backend selection (which cache/state
// implementation backs a run) is a construction-time concern resolved by
// the driver into concrete cache.Cache/state.Store instances before an
// Analyzer is built — see internal/config for that resolution — so it
// does not appear here; Options carries only what varies call to call.
type Options struct {
	// ExcludeCheckNames lists CI check names (exact match, case-sensitive)
	// to drop from the roll-up before CIStatus is computed.
	ExcludeCheckNames []string

	// ForceRefresh bypasses cache reads for this call; writes still occur.
	ForceRefresh bool

	// Deadline bounds the whole call's wall-clock budget. Zero means no
	// deadline. Negative is a precondition error.
	Deadline time.Duration
}

func (o Options) excludeSet() map[string]bool {
	set := make(map[string]bool, len(o.ExcludeCheckNames))
	for _, n := range o.ExcludeCheckNames {
		set[n] = true
	}
	return set
}
