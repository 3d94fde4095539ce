package engine

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/sentinelle/internal/walker"
)

// DefaultMaxPathLength is the path length ceiling applied when the
// configuration does not override it. Counted in characters, not bytes.
const DefaultMaxPathLength = 255

func init() {
	RegisterCheck(PathLengthCheck)
}

// PathLengthCheck flags entries whose full path is longer than the limit.
var PathLengthCheck = CheckDef{
	ID:          "PL01",
	Name:        "path.length",
	Description: "The full path exceeds the configured character limit.",
	Enabled:     func(cfg CheckConfig) bool { return cfg.PathLength },
	Check:       checkPathLength,
}

func checkPathLength(entry walker.Entry, cfg CheckConfig) []Verdict {
	limit := cfg.MaxPathLength
	if limit <= 0 {
		limit = DefaultMaxPathLength
	}

	n := utf8.RuneCountInString(entry.Path)
	if n <= limit {
		return nil
	}

	return []Verdict{{
		Path:       entry.Path,
		Name:       entry.Name,
		Depth:      entry.Depth,
		Kind:       entry.Kind,
		Conformant: false,
		RuleID:     "PL01",
		Reason:     fmt.Sprintf("path exceeds %d characters (%d)", limit, n),
	}}
}
