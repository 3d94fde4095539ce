package naming

// DefaultRules is the shipped ARBOMUT table: numbered roots carrying a
// three-letter code, capitalized folder names on the three levels beneath.
// Files are not name-checked by default. The table is plain data; deployments
// override it from the rules block of their configuration file.
func DefaultRules() []RuleSpec {
	return []RuleSpec{
		{
			ID:          "AR00",
			Depth:       0,
			Applies:     "dirs",
			Pattern:     "<number>_<upper:3>",
			Description: "numbered root with 3-letter code",
		},
		{
			ID:          "AR01",
			Depth:       1,
			Applies:     "dirs",
			Pattern:     `re:^[A-Z]\w+$`,
			Description: "capitalized level-1 folder name",
		},
		{
			ID:          "AR02",
			Depth:       2,
			Applies:     "dirs",
			Pattern:     `re:^[A-Z]\w+$`,
			Description: "capitalized level-2 folder name",
		},
		{
			ID:          "AR03",
			Depth:       3,
			Applies:     "dirs",
			Pattern:     `re:^[A-Z]\w+$`,
			Description: "capitalized level-3 folder name",
		},
	}
}

// DefaultRuleSet compiles the shipped table with the default policies:
// fallback allow, strict case.
func DefaultRuleSet() *RuleSet {
	rs, err := BuildRuleSet(DefaultRules(), FallbackAllow, CaseStrict)
	if err != nil {
		panic(err)
	}
	return rs
}
