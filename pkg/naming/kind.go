package naming

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// EntryKind
// =============================================================================

// EntryKind classifies a filesystem entry met during traversal.
type EntryKind int

// Entry kinds.
const (
	// KindDir is a directory entry.
	KindDir EntryKind = iota
	// KindFile is a regular file, or a symbolic link that is not followed.
	KindFile
	// KindUnreadable marks an entry whose listing or stat failed.
	KindUnreadable
)

// String returns the string representation of the entry kind.
func (k EntryKind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	case KindUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the kind as its string form.
func (k EntryKind) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(k.String())), nil
}

// UnmarshalJSON decodes the string form written by MarshalJSON.
func (k *EntryKind) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	switch s {
	case "dir":
		*k = KindDir
	case "file":
		*k = KindFile
	case "unreadable":
		*k = KindUnreadable
	default:
		return fmt.Errorf("unknown entry kind %q", s)
	}
	return nil
}

// =============================================================================
// AppliesTo
// =============================================================================

// AppliesTo restricts a rule to directories, files or both.
type AppliesTo int

// Rule applicability.
const (
	// AppliesBoth constrains directories and files alike.
	AppliesBoth AppliesTo = iota
	// AppliesDirs constrains directories only.
	AppliesDirs
	// AppliesFiles constrains files only.
	AppliesFiles
)

// String returns the string representation of the applicability.
func (a AppliesTo) String() string {
	switch a {
	case AppliesBoth:
		return "both"
	case AppliesDirs:
		return "dirs"
	case AppliesFiles:
		return "files"
	default:
		return "unknown"
	}
}

// ParseAppliesTo converts a string to an AppliesTo value.
// Returns the value and true if valid, or AppliesDirs and false if invalid.
func ParseAppliesTo(s string) (AppliesTo, bool) {
	switch strings.ToLower(s) {
	case "both", "all":
		return AppliesBoth, true
	case "dirs", "directories", "dir":
		return AppliesDirs, true
	case "files", "file":
		return AppliesFiles, true
	default:
		return AppliesDirs, false
	}
}

// Covers reports whether the rule constrains entries of the given kind.
// Unreadable entries are never evaluated against rules.
func (a AppliesTo) Covers(k EntryKind) bool {
	switch k {
	case KindDir:
		return a == AppliesBoth || a == AppliesDirs
	case KindFile:
		return a == AppliesBoth || a == AppliesFiles
	default:
		return false
	}
}

// =============================================================================
// CasePolicy
// =============================================================================

// CasePolicy controls how letter case is compared. It is a table-wide
// setting, never per-rule, so conformity cannot flip between depths.
type CasePolicy int

// Case policies.
const (
	// CaseStrict compares case-sensitively.
	CaseStrict CasePolicy = iota
	// CaseFold ignores letter case in classes and literals.
	CaseFold
)

// String returns the string representation of the case policy.
func (c CasePolicy) String() string {
	switch c {
	case CaseStrict:
		return "strict"
	case CaseFold:
		return "fold"
	default:
		return "unknown"
	}
}

// ParseCasePolicy converts a string to a CasePolicy value.
// Returns the policy and true if valid, or CaseStrict and false if invalid.
func ParseCasePolicy(s string) (CasePolicy, bool) {
	switch strings.ToLower(s) {
	case "strict", "sensitive":
		return CaseStrict, true
	case "fold", "insensitive":
		return CaseFold, true
	default:
		return CaseStrict, false
	}
}

// =============================================================================
// FallbackPolicy
// =============================================================================

// FallbackPolicy decides the verdict for depths with no entry in the rule
// table.
type FallbackPolicy int

// Fallback policies.
const (
	// FallbackAllow treats depths without a rule as conformant. This is the
	// default: scanning past the documented convention depth must not
	// manufacture violations.
	FallbackAllow FallbackPolicy = iota
	// FallbackDeny treats depths without a rule as violations.
	FallbackDeny
	// FallbackInherit reuses the deepest rule defined above the queried
	// depth.
	FallbackInherit
)

// String returns the string representation of the fallback policy.
func (f FallbackPolicy) String() string {
	switch f {
	case FallbackAllow:
		return "allow"
	case FallbackDeny:
		return "deny"
	case FallbackInherit:
		return "inherit"
	default:
		return "unknown"
	}
}

// ParseFallbackPolicy converts a string to a FallbackPolicy value.
// Returns the policy and true if valid, or FallbackAllow and false if invalid.
func ParseFallbackPolicy(s string) (FallbackPolicy, bool) {
	switch strings.ToLower(s) {
	case "allow":
		return FallbackAllow, true
	case "deny":
		return FallbackDeny, true
	case "inherit":
		return FallbackInherit, true
	default:
		return FallbackAllow, false
	}
}
