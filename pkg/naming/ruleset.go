package naming

import (
	"fmt"
	"sort"
)

// ReasonNoRule is the verdict reason for depths past the table end under
// FallbackDeny.
const ReasonNoRule = "no naming rule satisfied for this depth"

// Evaluation is the outcome of checking one name against the table.
type Evaluation struct {
	Conformant  bool
	RuleID      string
	Description string
	Reason      string
}

// RuleSet is the ordered table of naming rules keyed by tree depth. Build it
// once at configuration time; lookups and evaluation are O(1) per entry and
// safe for concurrent use.
type RuleSet struct {
	byDepth  map[int][]Rule
	deepest  int
	fallback FallbackPolicy
	casing   CasePolicy
}

// NewRuleSet assembles a table from compiled rules. For a given depth and
// entry kind at most one rule may be authoritative; overlapping rules are a
// configuration error, reported here rather than surfacing as arbitrary
// evaluation order later.
func NewRuleSet(rules []Rule, fallback FallbackPolicy, casing CasePolicy) (*RuleSet, error) {
	rs := &RuleSet{
		byDepth:  make(map[int][]Rule, len(rules)),
		deepest:  -1,
		fallback: fallback,
		casing:   casing,
	}

	seenIDs := make(map[string]bool, len(rules))
	for _, rule := range rules {
		if seenIDs[rule.ID] {
			return nil, fmt.Errorf("duplicate rule id %q", rule.ID)
		}
		seenIDs[rule.ID] = true

		for _, existing := range rs.byDepth[rule.Depth] {
			if overlaps(existing.Applies, rule.Applies) {
				return nil, fmt.Errorf("rules %q and %q overlap at depth %d (%s vs %s)",
					existing.ID, rule.ID, rule.Depth, existing.Applies, rule.Applies)
			}
		}
		rs.byDepth[rule.Depth] = append(rs.byDepth[rule.Depth], rule)
		if rule.Depth > rs.deepest {
			rs.deepest = rule.Depth
		}
	}
	return rs, nil
}

// BuildRuleSet compiles specs and assembles the table in one step.
func BuildRuleSet(specs []RuleSpec, fallback FallbackPolicy, casing CasePolicy) (*RuleSet, error) {
	rules := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		rule, err := spec.Compile()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return NewRuleSet(rules, fallback, casing)
}

// RuleFor returns the authoritative rule for a depth and kind, if the table
// defines one.
func (rs *RuleSet) RuleFor(depth int, kind EntryKind) (Rule, bool) {
	for _, rule := range rs.byDepth[depth] {
		if rule.Applies.Covers(kind) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Evaluate checks a name at a depth against the table.
//
// A depth with rules that simply do not constrain the entry's kind is "not
// applicable" and conformant. A depth with no rules at all resolves through
// the fallback policy; inherit reuses the nearest shallower rule covering
// the kind.
func (rs *RuleSet) Evaluate(depth int, name string, kind EntryKind) Evaluation {
	rules, defined := rs.byDepth[depth]
	if defined {
		for _, rule := range rules {
			if !rule.Applies.Covers(kind) {
				continue
			}
			ok, reason := rule.Pattern.Match(name, rs.casing == CaseFold)
			return Evaluation{Conformant: ok, RuleID: rule.ID, Description: rule.Description, Reason: reason}
		}
		return Evaluation{Conformant: true}
	}

	switch rs.fallback {
	case FallbackDeny:
		return Evaluation{Conformant: false, Reason: ReasonNoRule}
	case FallbackInherit:
		for d := depth - 1; d >= 0; d-- {
			rule, ok := rs.RuleFor(d, kind)
			if !ok {
				continue
			}
			okMatch, reason := rule.Pattern.Match(name, rs.casing == CaseFold)
			return Evaluation{Conformant: okMatch, RuleID: rule.ID, Description: rule.Description, Reason: reason}
		}
		return Evaluation{Conformant: true}
	default:
		return Evaluation{Conformant: true}
	}
}

// Rules returns every rule in the table, sorted by depth then ID, for
// listings.
func (rs *RuleSet) Rules() []Rule {
	var out []Rule
	for _, rules := range rs.byDepth {
		out = append(out, rules...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Fallback returns the table's fallback policy.
func (rs *RuleSet) Fallback() FallbackPolicy { return rs.fallback }

// Case returns the table-wide case policy.
func (rs *RuleSet) Case() CasePolicy { return rs.casing }

// DeepestDepth returns the deepest depth with a defined rule, or -1 for an
// empty table.
func (rs *RuleSet) DeepestDepth() int { return rs.deepest }

func overlaps(a, b AppliesTo) bool {
	if a == AppliesBoth || b == AppliesBoth {
		return true
	}
	return a == b
}
