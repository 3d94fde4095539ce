package walker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// subtreeResult is one first-level subtree collected by a worker.
type subtreeResult struct {
	entries []Entry
	err     error
}

// walkParallel fans first-level subtrees out to a bounded pool, then merges
// the collected buffers back in lexicographic order. Downstream sees exactly
// the sequential sequence; on cancellation it sees a prefix of it.
func (w *walker) walkParallel(ctx context.Context, root pending) error {
	children, listErr := w.listDir(root)
	if listErr != nil {
		return w.visit(unreadableEntry(root, listErr))
	}
	if err := w.visit(dirEntry(root, len(children))); err != nil {
		return err
	}

	pendings := make([]pending, 0, len(children))
	for _, de := range children {
		pendings = append(pendings, w.toPending(de, root))
	}

	results := make([]chan subtreeResult, len(pendings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Workers)

	for i, p := range pendings {
		if !p.isDir {
			continue
		}
		ch := make(chan subtreeResult, 1)
		results[i] = ch
		g.Go(func() error {
			var buf []Entry
			collector := &walker{
				opts: w.opts,
				seen: w.seen,
				visit: func(e Entry) error {
					buf = append(buf, e)
					return nil
				},
			}
			err := collector.walkSubtree(gctx, p)
			ch <- subtreeResult{entries: buf, err: err}
			return err
		})
	}

	var mergeErr error
merge:
	for i, p := range pendings {
		if !p.isDir {
			var e Entry
			if p.failed != nil {
				e = unreadableEntry(p, p.failed)
			} else {
				e = fileEntry(p)
			}
			if err := w.visit(e); err != nil {
				mergeErr = err
				break
			}
			continue
		}
		res := <-results[i]
		for _, e := range res.entries {
			if err := w.visit(e); err != nil {
				mergeErr = err
				break merge
			}
		}
		if res.err != nil {
			// The subtree stopped early; emitting later siblings would break
			// the prefix guarantee.
			mergeErr = res.err
			break
		}
	}

	// Let in-flight listings finish before reporting.
	waitErr := g.Wait()
	if mergeErr != nil {
		return mergeErr
	}
	return waitErr
}

// seenSet is the canonical-path set guarding against symlink cycles. Safe
// for concurrent use by the parallel walkers.
type seenSet struct {
	mu sync.Mutex
	m  map[string]bool
}

func newSeenSet() *seenSet {
	return &seenSet{m: make(map[string]bool)}
}

// add records a canonical path, reporting false if it was already present.
func (s *seenSet) add(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m[path] {
		return false
	}
	s.m[path] = true
	return true
}
