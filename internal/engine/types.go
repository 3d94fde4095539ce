package engine

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/sentinelle/pkg/naming"
)

// Verdict is the outcome of one check against one entry. Every visited
// entry produces at least one verdict; conformant entries produce exactly
// one with an empty reason.
type Verdict struct {
	Path       string           `json:"path"`
	Name       string           `json:"name"`
	Depth      int              `json:"depth"`
	Kind       naming.EntryKind `json:"kind"`
	Conformant bool             `json:"conformant"`
	// RuleID names the naming rule or auxiliary check behind the verdict.
	// Empty when no rule applied to the entry.
	RuleID          string `json:"rule_id,omitempty"`
	RuleDescription string `json:"rule_description,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// DuplicateGroup is a set of files sharing identical content.
type DuplicateGroup struct {
	Hash  string   `json:"hash"`
	Paths []string `json:"paths"`
}

// ScanSummary aggregates the counters of one audit run. Counters are per
// entry, not per verdict: an entry is conformant only when all its
// verdicts are. Timing fields never reach serialized reports, which keeps
// report bodies identical across re-runs of an unchanged tree.
type ScanSummary struct {
	Root            string        `json:"root"`
	MaxDepth        int           `json:"max_depth"`
	StartedAt       time.Time     `json:"-"`
	Duration        time.Duration `json:"-"`
	Visited         int           `json:"visited"`
	Conformant      int           `json:"conformant"`
	NonConformant   int           `json:"non_conformant"`
	Unreadable      int           `json:"unreadable"`
	DuplicateGroups int           `json:"duplicate_groups"`
	// Incomplete marks a run cancelled before the walk finished. The
	// verdicts gathered up to that point are still valid.
	Incomplete bool `json:"incomplete"`
}

// String returns a human-readable summary.
func (s *ScanSummary) String() string {
	return fmt.Sprintf(
		"Entries: %d visited (%d conformant, %d non-conformant, %d unreadable) | "+
			"Duplicate groups: %d | Duration: %s",
		s.Visited, s.Conformant, s.NonConformant, s.Unreadable,
		s.DuplicateGroups,
		s.Duration.Round(time.Millisecond),
	)
}

// ScanResult is the complete outcome of one audit run.
type ScanResult struct {
	Verdicts   []Verdict        `json:"verdicts"`
	Duplicates []DuplicateGroup `json:"duplicates,omitempty"`
	Summary    ScanSummary      `json:"summary"`
}

// Violations returns the non-conformant verdicts in traversal order.
func (r *ScanResult) Violations() []Verdict {
	var out []Verdict
	for _, v := range r.Verdicts {
		if !v.Conformant {
			out = append(out, v)
		}
	}
	return out
}
