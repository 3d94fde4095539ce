// Package report turns scan results into operator-facing artifacts.
// Record selection is tiered: the default surfaces only what needs fixing,
// higher tiers add the conforming entries and the matched rules.
package report

import (
	"github.com/leapstack-labs/sentinelle/internal/engine"
)

// Tier selects how much of the verdict stream reaches the report.
type Tier int

const (
	// TierViolations keeps non-conformant and unreadable verdicts only.
	TierViolations Tier = iota
	// TierAll adds the conformant verdicts.
	TierAll
	// TierDetailed additionally surfaces the matched rule per record.
	TierDetailed
)

// String returns the string representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierViolations:
		return "violations"
	case TierAll:
		return "all"
	case TierDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

// TierFromVerbosity maps a counted -v flag to a tier.
func TierFromVerbosity(v int) Tier {
	switch {
	case v <= 0:
		return TierViolations
	case v == 1:
		return TierAll
	default:
		return TierDetailed
	}
}

// Filter returns the verdicts surfaced at the tier, in traversal order.
// The writer never changes verdicts, only which ones are shown.
func Filter(verdicts []engine.Verdict, tier Tier) []engine.Verdict {
	if tier >= TierAll {
		return verdicts
	}
	var out []engine.Verdict
	for _, v := range verdicts {
		if !v.Conformant {
			out = append(out, v)
		}
	}
	return out
}
