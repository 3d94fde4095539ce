// Package naming implements the depth-aware ARBOMUT naming convention:
// rules that map a position in a directory tree to the pattern its entry
// names must follow.
//
// # Rules and RuleSets
//
// A Rule binds a compiled Pattern to the tree depth it governs and to the
// entry kinds it constrains (directories, files or both). A RuleSet is the
// ordered table of rules keyed by depth, with a single table-wide case
// policy and a fallback policy for depths past the table end:
//
//	rs, err := naming.BuildRuleSet(naming.DefaultRules(), naming.FallbackAllow, naming.CaseStrict)
//	ev := rs.Evaluate(0, "0_EVX", naming.KindDir)
//
// Evaluation is pure: the same (depth, name, kind) input always yields the
// same result.
//
// # Pattern grammar
//
// Patterns are written in a small token grammar. Text outside angle brackets
// matches literally; tokens match character classes:
//
//	<number>    one or more digits
//	<word>      one or more letters, digits or underscores
//	<digit>     a single digit        (<digit:3> for exactly three)
//	<letter>    a single letter       (<letter:3> for exactly three)
//	<upper>     an uppercase letter   (<upper:3> for exactly three)
//	<lower>     a lowercase letter    (<lower:3> for exactly three)
//
// The root convention N°_TrigrammeBDD is expressed as "<number>_<upper:3>".
// Variable-length tokens are greedy: a <word> token swallows underscores, so
// it must not be followed by a literal its class contains.
//
// A pattern starting with "re:" is instead compiled as a Go regular
// expression matched against the whole name, for conventions the token
// grammar cannot express. Either way, malformed patterns fail at compile
// time, never during evaluation.
//
// Names are NFC-normalized before matching so decomposed spellings of
// accented names (as produced by some network shares) compare equal to their
// composed forms.
package naming
