package naming

import "fmt"

// Rule binds a compiled pattern to the tree depth it governs.
type Rule struct {
	ID          string
	Depth       int
	Applies     AppliesTo
	Pattern     *Pattern
	Description string
}

// Evaluate checks a single name against the rule. A rule that does not
// constrain the entry's kind yields a conformant "not applicable" result,
// never a violation. The case policy comes from the enclosing RuleSet.
func (r Rule) Evaluate(name string, kind EntryKind, policy CasePolicy) (bool, string) {
	if !r.Applies.Covers(kind) {
		return true, ""
	}
	return r.Pattern.Match(name, policy == CaseFold)
}

// RuleSpec is the declarative form of a rule, as it appears in the rules
// block of a configuration file. Compiled into a Rule when the table is
// built.
type RuleSpec struct {
	ID          string `yaml:"id" koanf:"id"`
	Depth       int    `yaml:"depth" koanf:"depth"`
	Applies     string `yaml:"applies,omitempty" koanf:"applies"`
	Pattern     string `yaml:"pattern" koanf:"pattern"`
	Description string `yaml:"description,omitempty" koanf:"description"`
}

// Compile turns the declarative form into an evaluable Rule. Applicability
// defaults to directories, the convention's usual subject; a missing ID is
// derived from the depth.
func (s RuleSpec) Compile() (Rule, error) {
	if s.Depth < 0 {
		return Rule{}, fmt.Errorf("rule %q: negative depth %d", s.ID, s.Depth)
	}
	if s.Pattern == "" {
		return Rule{}, fmt.Errorf("rule %q: empty pattern", s.ID)
	}

	applies := AppliesDirs
	if s.Applies != "" {
		var ok bool
		if applies, ok = ParseAppliesTo(s.Applies); !ok {
			return Rule{}, fmt.Errorf("rule %q: unknown applies value %q (want dirs, files or both)", s.ID, s.Applies)
		}
	}

	pattern, err := Compile(s.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", s.ID, err)
	}

	id := s.ID
	if id == "" {
		id = fmt.Sprintf("AR%02d", s.Depth)
	}

	return Rule{
		ID:          id,
		Depth:       s.Depth,
		Applies:     applies,
		Pattern:     pattern,
		Description: s.Description,
	}, nil
}
