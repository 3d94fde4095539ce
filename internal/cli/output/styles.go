package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by text-mode rendering. In
// non-colored renderers every style is a no-op wrapper, so callers never
// branch on TTY state themselves.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// EntryPath styles filesystem paths in scan records.
	EntryPath lipgloss.Style

	// StatusSuccess and StatusFailed carry their glyphs, so String()
	// yields a ready-to-print marker.
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// newStyles builds the style set. Colors only apply on interactive
// text-mode output.
func newStyles(colored bool) *Styles {
	s := &Styles{
		Header1:       lipgloss.NewStyle(),
		Header2:       lipgloss.NewStyle(),
		Bold:          lipgloss.NewStyle(),
		Muted:         lipgloss.NewStyle(),
		Success:       lipgloss.NewStyle(),
		Warning:       lipgloss.NewStyle(),
		Error:         lipgloss.NewStyle(),
		Info:          lipgloss.NewStyle(),
		EntryPath:     lipgloss.NewStyle(),
		StatusSuccess: lipgloss.NewStyle().SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().SetString("✗"),
	}
	if !colored {
		return s
	}

	s.Header1 = s.Header1.Bold(true).Foreground(lipgloss.Color("12"))
	s.Header2 = s.Header2.Bold(true).Foreground(lipgloss.Color("14"))
	s.Bold = s.Bold.Bold(true)
	s.Muted = s.Muted.Foreground(lipgloss.Color("8"))
	s.Success = s.Success.Foreground(lipgloss.Color("10"))
	s.Warning = s.Warning.Foreground(lipgloss.Color("11"))
	s.Error = s.Error.Foreground(lipgloss.Color("9"))
	s.Info = s.Info.Foreground(lipgloss.Color("12"))
	s.EntryPath = s.EntryPath.Foreground(lipgloss.Color("6"))
	s.StatusSuccess = s.StatusSuccess.Foreground(lipgloss.Color("10"))
	s.StatusFailed = s.StatusFailed.Foreground(lipgloss.Color("9"))
	return s
}
