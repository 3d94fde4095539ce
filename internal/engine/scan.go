package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/sentinelle/internal/state"
	"github.com/leapstack-labs/sentinelle/internal/walker"
	"github.com/leapstack-labs/sentinelle/pkg/naming"
)

// ScanOptions configures a single audit run.
type ScanOptions struct {
	// Root is the directory to audit.
	Root string
	// MaxDepth bounds the traversal. Entries at exactly MaxDepth are
	// still audited; nothing below them is read.
	MaxDepth int
	// Workers > 1 audits first-level subtrees concurrently. Verdict order
	// is the same regardless of worker count.
	Workers int
	// FollowSymlinks descends through directory symlinks.
	FollowSymlinks bool
	// SkipRoot leaves the root directory's own name unchecked.
	SkipRoot bool
	// Rules is the naming convention to enforce. Nil selects the built-in
	// default table.
	Rules *naming.RuleSet
	// Checks configures the auxiliary checks.
	Checks CheckConfig
}

// Scan audits the tree rooted at opts.Root against the naming rules and
// the enabled auxiliary checks. Cancellation is not a failure: the
// verdicts gathered so far are returned with Summary.Incomplete set.
func (e *Engine) Scan(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	start := time.Now()

	rules := opts.Rules
	if rules == nil {
		rules = naming.DefaultRuleSet()
	}

	e.logger.Info("starting scan",
		"root", opts.Root,
		"max_depth", opts.MaxDepth,
		"workers", opts.Workers)

	// 1. Record the run before touching the filesystem
	var runID string
	if e.store != nil {
		run, err := e.store.CreateRun(opts.Root, opts.MaxDepth)
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		runID = run.ID
	}

	// 2. Walk the tree, judging every entry as it appears
	result := &ScanResult{
		Summary: ScanSummary{
			Root:      opts.Root,
			MaxDepth:  opts.MaxDepth,
			StartedAt: start.UTC(),
		},
	}
	checks := enabledChecks(opts.Checks)

	var hasher *duplicateHasher
	if opts.Checks.Duplicates {
		hasher = newDuplicateHasher(ctx, opts.Checks.HashWorkers, e.logger)
	}

	walkOpts := walker.Options{
		MaxDepth:       opts.MaxDepth,
		FollowSymlinks: opts.FollowSymlinks,
		Workers:        opts.Workers,
	}
	walkErr := walker.Walk(ctx, opts.Root, walkOpts, func(entry walker.Entry) error {
		verdicts := judgeEntry(entry, rules, checks, opts)
		result.Verdicts = append(result.Verdicts, verdicts...)
		result.Summary.tally(entry, verdicts)

		// Symlinks are never hashed: grouping a link with its target would
		// report the same content twice.
		if hasher != nil && entry.Kind == naming.KindFile && !entry.Link {
			hasher.submit(entry.Path)
		}
		return nil
	})

	// 3. Drain the hash pool even on early exit so no worker outlives the scan
	if hasher != nil {
		result.Duplicates = hasher.wait()
		result.Summary.DuplicateGroups = len(result.Duplicates)
	}
	result.Summary.Duration = time.Since(start)

	// 4. Close out the run record
	cancelled := errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded)
	switch {
	case walkErr == nil:
		e.finishRun(runID, state.RunStatusCompleted, result, "")
	case cancelled:
		result.Summary.Incomplete = true
		e.finishRun(runID, state.RunStatusCancelled, result, walkErr.Error())
	default:
		e.finishRun(runID, state.RunStatusFailed, result, walkErr.Error())
		return nil, walkErr
	}

	e.logger.Info("scan completed",
		"visited", result.Summary.Visited,
		"non_conformant", result.Summary.NonConformant,
		"unreadable", result.Summary.Unreadable,
		"duplicate_groups", result.Summary.DuplicateGroups,
		"incomplete", result.Summary.Incomplete,
		"duration_ms", result.Summary.Duration.Milliseconds())

	return result, nil
}

// judgeEntry produces all verdicts for a single entry: the naming verdict
// first, then one verdict per failing auxiliary check.
func judgeEntry(entry walker.Entry, rules *naming.RuleSet, checks []CheckDef, opts ScanOptions) []Verdict {
	base := Verdict{
		Path:  entry.Path,
		Name:  entry.Name,
		Depth: entry.Depth,
		Kind:  entry.Kind,
	}

	// An unreadable entry gets exactly one verdict. The rules are never
	// consulted for a name the walker could not resolve.
	if entry.Kind == naming.KindUnreadable {
		base.Conformant = false
		base.Reason = entry.Err.Error()
		return []Verdict{base}
	}

	verdicts := make([]Verdict, 0, 1)

	if entry.Depth == 0 && opts.SkipRoot {
		v := base
		v.Conformant = true
		verdicts = append(verdicts, v)
	} else {
		ev := rules.Evaluate(entry.Depth, entry.Name, entry.Kind)
		v := base
		v.Conformant = ev.Conformant
		v.RuleID = ev.RuleID
		v.RuleDescription = ev.Description
		v.Reason = ev.Reason
		verdicts = append(verdicts, v)
	}

	for _, chk := range checks {
		verdicts = append(verdicts, chk.Check(entry, opts.Checks)...)
	}
	return verdicts
}

// tally updates the counters for one visited entry.
func (s *ScanSummary) tally(entry walker.Entry, verdicts []Verdict) {
	s.Visited++
	if entry.Kind == naming.KindUnreadable {
		s.Unreadable++
		return
	}
	for _, v := range verdicts {
		if !v.Conformant {
			s.NonConformant++
			return
		}
	}
	s.Conformant++
}

// finishRun closes out the history record. History failures are logged,
// never escalated.
func (e *Engine) finishRun(id string, status state.RunStatus, result *ScanResult, errMsg string) {
	if e.store == nil || id == "" {
		return
	}

	totals := state.RunTotals{
		Visited:         int64(result.Summary.Visited),
		Conformant:      int64(result.Summary.Conformant),
		NonConformant:   int64(result.Summary.NonConformant),
		Unreadable:      int64(result.Summary.Unreadable),
		DuplicateGroups: int64(result.Summary.DuplicateGroups),
	}
	if err := e.store.CompleteRun(id, status, totals, errMsg); err != nil {
		e.logger.Warn("failed to record run completion", "run_id", id, "error", err)
	}
}
