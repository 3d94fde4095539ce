// Package output provides console rendering for the sentinelle CLI.
//
// A Renderer owns the output writers and the effective rendering mode.
// Auto mode picks text on interactive terminals and markdown everywhere
// else, so piped output stays clean without any flags.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// OutputMode selects how command results are rendered.
type OutputMode string

// Rendering modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode normalizes a format string into an OutputMode.
// Unknown values fall back to auto detection.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is an interactive
// terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, detectTTY(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Tests use this to force a deterministic mode.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
	}
	colored := isTTY && r.EffectiveMode() == ModeText && !termenv.EnvNoColor()
	r.styles = newStyles(colored)
	return r
}

// detectTTY reports whether w is an interactive terminal.
func detectTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves auto mode to text or markdown.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to an interactive terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Writer returns the primary output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Styles returns the style set matching the renderer's mode.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Println writes a line to the primary output.
func (r *Renderer) Println(args ...any) {
	fmt.Fprintln(r.out, args...)
}

// Printf writes formatted text to the primary output.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Success prints a check-marked line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.StatusSuccess.String() + " " + msg)
}

// Warning prints a warning line to the error output.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+msg))
}

// Error prints an error line to the error output.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render(msg))
}

// Muted prints a de-emphasized line.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// StatusLine prints one name with a pass or fail glyph and an optional
// detail suffix.
func (r *Renderer) StatusLine(name, status, detail string) {
	icon := r.styles.StatusSuccess.String()
	switch status {
	case "warn":
		icon = r.styles.Warning.Render("!")
	case "error", "failed":
		icon = r.styles.StatusFailed.String()
	}
	line := fmt.Sprintf("  %s %s", icon, name)
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

// JSON writes v as indented JSON to the primary output.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
