package naming

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRuleSet(t *testing.T, specs []RuleSpec, fallback FallbackPolicy, casing CasePolicy) *RuleSet {
	t.Helper()
	rs, err := BuildRuleSet(specs, fallback, casing)
	require.NoError(t, err)
	return rs
}

func TestDefaultRuleSet(t *testing.T) {
	rs := DefaultRuleSet()

	rule, ok := rs.RuleFor(0, KindDir)
	require.True(t, ok)
	assert.Equal(t, "AR00", rule.ID)

	// Files are unconstrained by the shipped table.
	_, ok = rs.RuleFor(0, KindFile)
	assert.False(t, ok)

	assert.Equal(t, 3, rs.DeepestDepth())
	assert.Equal(t, FallbackAllow, rs.Fallback())
	assert.Equal(t, CaseStrict, rs.Case())
	assert.Len(t, rs.Rules(), 4)
}

func TestNewRuleSet_RejectsOverlap(t *testing.T) {
	specs := []RuleSpec{
		{ID: "A", Depth: 1, Applies: "dirs", Pattern: "<word>"},
		{ID: "B", Depth: 1, Applies: "both", Pattern: "<number>"},
	}
	_, err := BuildRuleSet(specs, FallbackAllow, CaseStrict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")

	// Dir and file rules at the same depth do not overlap.
	specs = []RuleSpec{
		{ID: "A", Depth: 1, Applies: "dirs", Pattern: "<word>"},
		{ID: "B", Depth: 1, Applies: "files", Pattern: "<number>"},
	}
	_, err = BuildRuleSet(specs, FallbackAllow, CaseStrict)
	assert.NoError(t, err)
}

func TestNewRuleSet_RejectsDuplicateID(t *testing.T) {
	specs := []RuleSpec{
		{ID: "A", Depth: 0, Applies: "dirs", Pattern: "<word>"},
		{ID: "A", Depth: 1, Applies: "dirs", Pattern: "<word>"},
	}
	_, err := BuildRuleSet(specs, FallbackAllow, CaseStrict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule id")
}

func TestEvaluate_RootScenarios(t *testing.T) {
	rs := mustRuleSet(t, []RuleSpec{
		{ID: "ROOT", Depth: 0, Applies: "dirs", Pattern: "<digit>_<letter:3>", Description: "numbered root"},
	}, FallbackAllow, CaseStrict)

	ev := rs.Evaluate(0, "0_EVX", KindDir)
	assert.True(t, ev.Conformant)
	assert.Equal(t, "ROOT", ev.RuleID)
	assert.Empty(t, ev.Reason)

	ev = rs.Evaluate(0, "EVX", KindDir)
	assert.False(t, ev.Conformant)
	assert.Contains(t, ev.Reason, "digit")
}

func TestEvaluate_FallbackDeny(t *testing.T) {
	rs := mustRuleSet(t, []RuleSpec{
		{ID: "ROOT", Depth: 0, Applies: "dirs", Pattern: "<number>_<upper:3>"},
	}, FallbackDeny, CaseStrict)

	ev := rs.Evaluate(1, "data", KindDir)
	assert.False(t, ev.Conformant)
	assert.Equal(t, ReasonNoRule, ev.Reason)
	assert.Empty(t, ev.RuleID)
}

func TestEvaluate_FallbackAllow(t *testing.T) {
	rs := mustRuleSet(t, []RuleSpec{
		{ID: "R0", Depth: 0, Applies: "dirs", Pattern: "<number>"},
		{ID: "R1", Depth: 1, Applies: "dirs", Pattern: "<word>"},
		{ID: "R2", Depth: 2, Applies: "dirs", Pattern: "<word>"},
	}, FallbackAllow, CaseStrict)

	// Depths past the table end never manufacture violations.
	for depth := 3; depth <= 5; depth++ {
		ev := rs.Evaluate(depth, "anything at all!", KindDir)
		assert.True(t, ev.Conformant, "depth %d", depth)
	}
}

func TestEvaluate_FallbackInherit(t *testing.T) {
	rs := mustRuleSet(t, []RuleSpec{
		{ID: "R0", Depth: 0, Applies: "dirs", Pattern: "<number>"},
		{ID: "R2", Depth: 2, Applies: "dirs", Pattern: "<upper:3>", Description: "3-letter code"},
	}, FallbackInherit, CaseStrict)

	// Depth 5 inherits the deepest shallower rule, R2.
	ev := rs.Evaluate(5, "ABC", KindDir)
	assert.True(t, ev.Conformant)
	assert.Equal(t, "R2", ev.RuleID)

	ev = rs.Evaluate(5, "abc", KindDir)
	assert.False(t, ev.Conformant)
	assert.Equal(t, "R2", ev.RuleID)

	// No shallower rule covers files, so files stay conformant.
	ev = rs.Evaluate(5, "whatever.bin", KindFile)
	assert.True(t, ev.Conformant)
	assert.Empty(t, ev.RuleID)
}

func TestEvaluate_NotApplicableIsConformant(t *testing.T) {
	rs := mustRuleSet(t, []RuleSpec{
		{ID: "R1", Depth: 1, Applies: "dirs", Pattern: "<upper:3>"},
	}, FallbackDeny, CaseStrict)

	// Depth 1 is defined, the rule just does not constrain files: that is
	// not a fallback case and never a violation.
	ev := rs.Evaluate(1, "notes.txt", KindFile)
	assert.True(t, ev.Conformant)
	assert.Empty(t, ev.RuleID)
	assert.Empty(t, ev.Reason)
}

func TestEvaluate_CaseFold(t *testing.T) {
	rs := mustRuleSet(t, []RuleSpec{
		{ID: "R0", Depth: 0, Applies: "dirs", Pattern: "<number>_<upper:3>"},
	}, FallbackAllow, CaseFold)

	ev := rs.Evaluate(0, "0_evx", KindDir)
	assert.True(t, ev.Conformant)
}

func TestRules_Sorted(t *testing.T) {
	rs := mustRuleSet(t, []RuleSpec{
		{ID: "B", Depth: 2, Applies: "dirs", Pattern: "<word>"},
		{ID: "A", Depth: 0, Applies: "dirs", Pattern: "<word>"},
		{ID: "C", Depth: 1, Applies: "files", Pattern: "<word>"},
		{ID: "D", Depth: 1, Applies: "dirs", Pattern: "<word>"},
	}, FallbackAllow, CaseStrict)

	rules := rs.Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, []string{"A", "C", "D", "B"}, []string{rules[0].ID, rules[1].ID, rules[2].ID, rules[3].ID})
}

func TestRuleSpec_Compile(t *testing.T) {
	tests := []struct {
		name    string
		spec    RuleSpec
		wantErr string
	}{
		{"negative depth", RuleSpec{ID: "X", Depth: -1, Pattern: "<word>"}, "negative depth"},
		{"empty pattern", RuleSpec{ID: "X", Depth: 0}, "empty pattern"},
		{"bad applies", RuleSpec{ID: "X", Depth: 0, Applies: "links", Pattern: "<word>"}, "unknown applies"},
		{"bad pattern", RuleSpec{ID: "X", Depth: 0, Pattern: "<nope>"}, "unknown token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.Compile()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	// Applicability defaults to directories and the ID derives from depth.
	rule, err := RuleSpec{Depth: 2, Pattern: "<word>"}.Compile()
	require.NoError(t, err)
	assert.Equal(t, "AR02", rule.ID)
	assert.Equal(t, AppliesDirs, rule.Applies)
}

func TestParseEnums(t *testing.T) {
	tests := []struct {
		in     string
		parse  func(string) (fmt.Stringer, bool)
		want   string
		wantOK bool
	}{
		{"dirs", func(s string) (fmt.Stringer, bool) { v, ok := ParseAppliesTo(s); return v, ok }, "dirs", true},
		{"BOTH", func(s string) (fmt.Stringer, bool) { v, ok := ParseAppliesTo(s); return v, ok }, "both", true},
		{"links", func(s string) (fmt.Stringer, bool) { v, ok := ParseAppliesTo(s); return v, ok }, "dirs", false},
		{"insensitive", func(s string) (fmt.Stringer, bool) { v, ok := ParseCasePolicy(s); return v, ok }, "fold", true},
		{"strict", func(s string) (fmt.Stringer, bool) { v, ok := ParseCasePolicy(s); return v, ok }, "strict", true},
		{"deny", func(s string) (fmt.Stringer, bool) { v, ok := ParseFallbackPolicy(s); return v, ok }, "deny", true},
		{"inherit", func(s string) (fmt.Stringer, bool) { v, ok := ParseFallbackPolicy(s); return v, ok }, "inherit", true},
		{"nope", func(s string) (fmt.Stringer, bool) { v, ok := ParseFallbackPolicy(s); return v, ok }, "allow", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, ok := tt.parse(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, v.String())
		})
	}
}
