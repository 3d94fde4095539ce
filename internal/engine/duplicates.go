package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// defaultHashWorkers bounds concurrent file hashing when the configuration
// does not override it.
const defaultHashWorkers = 4

func init() {
	RegisterCheck(DuplicateCheck)
}

// DuplicateCheck groups files whose content hashes collide. It runs in the
// scan pipeline rather than per entry.
var DuplicateCheck = CheckDef{
	ID:          "DF01",
	Name:        "content.duplicate",
	Description: "Two or more files carry byte-identical content.",
	Enabled:     func(cfg CheckConfig) bool { return cfg.Duplicates },
}

// duplicateHasher fingerprints file contents in a bounded worker pool.
type duplicateHasher struct {
	g      *errgroup.Group
	ctx    context.Context
	logger *slog.Logger

	mu     sync.Mutex
	byHash map[string][]string
}

func newDuplicateHasher(ctx context.Context, workers int, logger *slog.Logger) *duplicateHasher {
	if workers <= 0 {
		workers = defaultHashWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	return &duplicateHasher{
		g:      g,
		ctx:    gctx,
		logger: logger,
		byHash: make(map[string][]string),
	}
}

// submit schedules path for hashing. Blocks while every worker is busy,
// which keeps the walk from racing ahead of the disk.
func (h *duplicateHasher) submit(path string) {
	h.g.Go(func() error {
		if h.ctx.Err() != nil {
			return nil
		}
		sum, err := hashFile(path)
		if err != nil {
			// A file that cannot be read is simply exempt from grouping.
			h.logger.Debug("skipping unhashable file", "path", path, "error", err)
			return nil
		}
		h.mu.Lock()
		h.byHash[sum] = append(h.byHash[sum], path)
		h.mu.Unlock()
		return nil
	})
}

// wait drains the pool and returns groups of two or more identical files.
// Paths within a group and groups themselves are sorted so reports come
// out stable.
func (h *duplicateHasher) wait() []DuplicateGroup {
	_ = h.g.Wait()

	var groups []DuplicateGroup
	for hash, paths := range h.byHash {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		groups = append(groups, DuplicateGroup{Hash: hash, Paths: paths})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Paths[0] < groups[j].Paths[0] })
	return groups
}

// hashFile returns the hex SHA-256 digest of the file content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
