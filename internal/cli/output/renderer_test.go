package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newBufferRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		input    string
		expected OutputMode
	}{
		{"text", ModeText},
		{"TEXT", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"bogus", ModeAuto},
		{"  json  ", ModeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Mode(tt.input))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     OutputMode
		isTTY    bool
		expected OutputMode
	}{
		{"auto on tty is text", ModeAuto, true, ModeText},
		{"auto piped is markdown", ModeAuto, false, ModeMarkdown},
		{"explicit text survives piping", ModeText, false, ModeText},
		{"explicit json on tty", ModeJSON, true, ModeJSON},
		{"explicit markdown on tty", ModeMarkdown, true, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newBufferRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.expected, r.EffectiveMode())
		})
	}
}

func TestRenderer_Println_Printf(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeText, false)

	r.Println("hello")
	r.Printf("%d entries\n", 4)

	assert.Equal(t, "hello\n4 entries\n", out.String())
}

func TestRenderer_StatusLines(t *testing.T) {
	r, out, errOut := newBufferRenderer(ModeMarkdown, false)

	r.Success("report written")
	r.Warning("partial scan")
	r.Error("boom")
	r.Muted("details")

	assert.Contains(t, out.String(), "✓ report written")
	assert.Contains(t, out.String(), "details")
	assert.Contains(t, errOut.String(), "! partial scan")
	assert.Contains(t, errOut.String(), "boom")

	// Non-TTY renderers must never emit escape codes
	assert.False(t, ansiPattern.MatchString(out.String()+errOut.String()))
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeJSON, false)

	require.NoError(t, r.JSON(map[string]int{"visited": 7}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 7, decoded["visited"])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Scan Report", FormatHeader(1, "Scan Report"))
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
	assert.Equal(t, "- **Root**: /data", FormatKeyValue("Root", "/data"))
	assert.Equal(t, "```yaml\ndepth: 3\n```", FormatCodeBlock("yaml", "depth: 3\n"))
}

func TestSpinner_DisabledOutsideTTY(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeAuto, false)

	s := r.NewSpinner("scanning")
	s.Start()
	s.Success("scan completed")

	// No animation frames, just the final status line
	assert.Equal(t, "✓ scan completed\n", out.String())
}
