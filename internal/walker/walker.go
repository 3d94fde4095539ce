// Package walker implements the bounded directory traversal feeding the
// compliance engine: depth-first, children in lexicographic order, entries
// past the depth bound never visited.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sentinelle/pkg/naming"
)

// ErrCycle reports a directory reached twice through symbolic links.
var ErrCycle = errors.New("cycle detected")

// Entry is a single filesystem object met during traversal. Entries are
// immutable and transient: the walker never retains a tree in memory.
type Entry struct {
	Path       string // absolute
	Name       string // final path component
	Depth      int    // root = 0
	Kind       naming.EntryKind
	ParentPath string
	Err        error // the listing or stat failure when Kind is unreadable
	Children   int   // direct child count; -1 when the directory was not listed
	Link       bool  // the entry itself is a symbolic link
}

// Options configures a traversal.
type Options struct {
	// MaxDepth bounds the walk: entries at exactly MaxDepth are yielded,
	// directories at MaxDepth are never listed.
	MaxDepth int
	// FollowSymlinks descends through directory symlinks. A canonical-path
	// set then guards against cycles; a revisited directory yields an
	// unreadable entry wrapping ErrCycle. Off by default: links are yielded
	// as file entries and never descended.
	FollowSymlinks bool
	// Workers > 1 walks first-level subtrees in parallel. Delivery order is
	// identical to the sequential walk regardless of worker count.
	Workers int
}

// VisitFunc receives each entry in traversal order. Returning an error
// aborts the walk.
type VisitFunc func(Entry) error

// Walk traverses root and calls visit for every entry up to and including
// Options.MaxDepth. A directory that cannot be listed yields a single
// unreadable entry instead of a directory entry and is not descended;
// traversal of its siblings continues. The walk is finite and not
// restartable: a fresh call re-reads the filesystem.
func Walk(ctx context.Context, root string, opts Options, visit VisitFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", absRoot)
	}

	w := &walker{opts: opts, visit: visit}
	if opts.FollowSymlinks {
		w.seen = newSeenSet()
	}

	start := pending{
		path:   absRoot,
		name:   filepath.Base(absRoot),
		parent: filepath.Dir(absRoot),
		isDir:  true,
	}
	if opts.Workers > 1 && opts.MaxDepth > 0 {
		return w.walkParallel(ctx, start)
	}
	return w.walkSubtree(ctx, start)
}

type walker struct {
	opts  Options
	visit VisitFunc
	seen  *seenSet // nil unless FollowSymlinks
}

// pending is one frame on the explicit work stack. Depth is carried per
// frame so recursion never tracks tree depth.
type pending struct {
	path   string
	name   string
	parent string
	depth  int
	isDir  bool
	isLink bool
	failed error // stat failure discovered while queueing (broken symlink)
}

// walkSubtree drains an explicit stack in pre-order. Children are pushed in
// reverse name order so pops come out lexicographic.
func (w *walker) walkSubtree(ctx context.Context, start pending) error {
	stack := []pending{start}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.failed != nil {
			if err := w.visit(unreadableEntry(p, p.failed)); err != nil {
				return err
			}
			continue
		}
		if !p.isDir {
			if err := w.visit(fileEntry(p)); err != nil {
				return err
			}
			continue
		}
		if p.depth >= w.opts.MaxDepth {
			// Depth bound: yield the directory itself, never list it.
			if err := w.visit(dirEntry(p, -1)); err != nil {
				return err
			}
			continue
		}

		children, listErr := w.listDir(p)
		if listErr != nil {
			if err := w.visit(unreadableEntry(p, listErr)); err != nil {
				return err
			}
			continue
		}
		if err := w.visit(dirEntry(p, len(children))); err != nil {
			return err
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, w.toPending(children[i], p))
		}
	}
	return nil
}

// listDir lists a directory, applying the cycle guard first when symlink
// following is enabled.
func (w *walker) listDir(p pending) ([]fs.DirEntry, error) {
	if w.seen != nil {
		canon, err := filepath.EvalSymlinks(p.path)
		if err != nil {
			return nil, err
		}
		if !w.seen.add(canon) {
			return nil, ErrCycle
		}
	}
	// os.ReadDir returns entries sorted by name, which fixes the traversal
	// order.
	return os.ReadDir(p.path)
}

func (w *walker) toPending(de fs.DirEntry, parent pending) pending {
	p := pending{
		path:   filepath.Join(parent.path, de.Name()),
		name:   de.Name(),
		parent: parent.path,
		depth:  parent.depth + 1,
		isLink: de.Type()&fs.ModeSymlink != 0,
	}
	switch {
	case de.IsDir():
		p.isDir = true
	case p.isLink && w.opts.FollowSymlinks:
		info, err := os.Stat(p.path)
		if err != nil {
			p.failed = err
		} else {
			p.isDir = info.IsDir()
		}
	}
	return p
}

func fileEntry(p pending) Entry {
	return Entry{
		Path:       p.path,
		Name:       p.name,
		Depth:      p.depth,
		Kind:       naming.KindFile,
		ParentPath: p.parent,
		Children:   -1,
		Link:       p.isLink,
	}
}

func dirEntry(p pending, children int) Entry {
	return Entry{
		Path:       p.path,
		Name:       p.name,
		Depth:      p.depth,
		Kind:       naming.KindDir,
		ParentPath: p.parent,
		Children:   children,
		Link:       p.isLink,
	}
}

func unreadableEntry(p pending, err error) Entry {
	return Entry{
		Path:       p.path,
		Name:       p.name,
		Depth:      p.depth,
		Kind:       naming.KindUnreadable,
		ParentPath: p.parent,
		Err:        err,
		Children:   -1,
		Link:       p.isLink,
	}
}
