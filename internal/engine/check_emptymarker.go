package engine

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/leapstack-labs/sentinelle/internal/walker"
	"github.com/leapstack-labs/sentinelle/pkg/naming"
)

// emptyMarkerPattern matches folder names ending in the -VIDE suffix,
// which asserts the folder holds no files at any depth below it.
var emptyMarkerPattern = regexp.MustCompile(`^[\p{L}\p{N}_ ]+-VIDE$`)

func init() {
	RegisterCheck(EmptyMarkerCheck)
}

// EmptyMarkerCheck verifies folders marked -VIDE contain no files.
var EmptyMarkerCheck = CheckDef{
	ID:          "EM01",
	Name:        "marker.empty",
	Description: "A folder marked -VIDE contains files.",
	Enabled:     func(cfg CheckConfig) bool { return cfg.EmptyMarker },
	Check:       checkEmptyMarker,
}

func checkEmptyMarker(entry walker.Entry, cfg CheckConfig) []Verdict {
	if entry.Kind != naming.KindDir || !emptyMarkerPattern.MatchString(entry.Name) {
		return nil
	}
	if entry.Children == 0 {
		return nil
	}
	// The probe descends past the traversal depth bound: the marker claims
	// the whole subtree is file-free.
	if !hasFilesBeneath(entry.Path) {
		return nil
	}

	return []Verdict{{
		Path:       entry.Path,
		Name:       entry.Name,
		Depth:      entry.Depth,
		Kind:       entry.Kind,
		Conformant: false,
		RuleID:     "EM01",
		Reason:     "folder marked -VIDE contains files",
	}}
}

// hasFilesBeneath reports whether any regular file exists under dir at any
// depth. Subdirectories alone do not count, and unreadable directories are
// skipped. Stops at the first file found.
func hasFilesBeneath(dir string) bool {
	stack := []string{dir}
	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(d)
		if err != nil {
			continue
		}
		for _, de := range entries {
			if de.IsDir() {
				stack = append(stack, filepath.Join(d, de.Name()))
				continue
			}
			if de.Type().IsRegular() {
				return true
			}
		}
	}
	return false
}
