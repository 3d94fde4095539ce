package naming

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRulesDoc = `fallback: deny
case: fold
table:
  - id: PH00
    depth: 0
    applies: dirs
    pattern: "<number>_<upper:2>"
  - id: PH01
    depth: 1
    applies: both
    pattern: "re:^[a-z]+$"
`

func TestParseRulesDocument(t *testing.T) {
	rs, err := ParseRulesDocument([]byte(sampleRulesDoc))
	require.NoError(t, err)

	assert.Equal(t, FallbackDeny, rs.Fallback())
	assert.Equal(t, CaseFold, rs.Case())
	require.Len(t, rs.Rules(), 2)

	ev := rs.Evaluate(0, "7_AB", KindDir)
	assert.True(t, ev.Conformant)
	assert.Equal(t, "PH00", ev.RuleID)
}

func TestParseRulesDocument_Defaults(t *testing.T) {
	doc := `table:
  - depth: 0
    pattern: "<word>"
`
	rs, err := ParseRulesDocument([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, FallbackAllow, rs.Fallback())
	assert.Equal(t, CaseStrict, rs.Case())
}

func TestParseRulesDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"malformed yaml", "table: [", "parse rules document"},
		{"unknown fallback", "fallback: maybe\ntable:\n  - depth: 0\n    pattern: x", "unknown fallback"},
		{"unknown case", "case: loose\ntable:\n  - depth: 0\n    pattern: x", "unknown case"},
		{"empty table", "fallback: allow", "defines no rules"},
		{"bad pattern", "table:\n  - depth: 0\n    pattern: \"<sideways:3>\"", "unknown token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRulesDocument([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "naming-rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRulesDoc), 0o644))

	rs, err := LoadRulesFile(path)
	require.NoError(t, err)
	assert.Len(t, rs.Rules(), 2)
}

func TestLoadRulesFile_Missing(t *testing.T) {
	_, err := LoadRulesFile(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read rules file")
}
