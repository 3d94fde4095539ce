package naming

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RulesDocument is the standalone rules file format: the rules block of a
// configuration file promoted to a file of its own, so a convention can be
// versioned and shared independently of any one project's settings.
type RulesDocument struct {
	Fallback string     `yaml:"fallback,omitempty"`
	Case     string     `yaml:"case,omitempty"`
	Table    []RuleSpec `yaml:"table"`
}

// LoadRulesFile reads and compiles a standalone YAML rules file.
func LoadRulesFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	rs, err := ParseRulesDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// ParseRulesDocument unmarshals a YAML rules document and compiles it.
// Fallback defaults to allow and case to strict when omitted.
func ParseRulesDocument(data []byte) (*RuleSet, error) {
	var doc RulesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules document: %w", err)
	}
	return doc.Build()
}

// Build compiles the document into a RuleSet. Unlike an omitted rules block
// in a configuration file, a document with an empty table is an error: a
// dedicated rules file that constrains nothing is a mistake worth flagging.
func (d RulesDocument) Build() (*RuleSet, error) {
	fallback := FallbackAllow
	if d.Fallback != "" {
		var ok bool
		if fallback, ok = ParseFallbackPolicy(d.Fallback); !ok {
			return nil, fmt.Errorf("unknown fallback value %q (want allow, deny or inherit)", d.Fallback)
		}
	}

	casing := CaseStrict
	if d.Case != "" {
		var ok bool
		if casing, ok = ParseCasePolicy(d.Case); !ok {
			return nil, fmt.Errorf("unknown case value %q (want strict or fold)", d.Case)
		}
	}

	if len(d.Table) == 0 {
		return nil, fmt.Errorf("rules document defines no rules")
	}

	return BuildRuleSet(d.Table, fallback, casing)
}
