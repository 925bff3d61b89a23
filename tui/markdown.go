package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DetectMarkdownStyle picks a glamour style for the current terminal. It
// queries the terminal, so call it before the program takes over stdin.
func DetectMarkdownStyle() string {
	switch {
	case termenv.EnvColorProfile() == termenv.Ascii:
		return "notty"
	case !termenv.HasDarkBackground():
		return "light"
	default:
		return "dark"
	}
}

// markdownRenderer renders message text, reusing one glamour renderer per
// wrap width.
type markdownRenderer struct {
	enabled bool
	style   string
	width   int
	r       *glamour.TermRenderer
}

func newMarkdownRenderer(enabled bool, style string) *markdownRenderer {
	if style == "" {
		style = "dark"
	}
	return &markdownRenderer{enabled: enabled, style: style}
}

// looksLikeMarkdown skips glamour for plain chat lines, which it would
// otherwise pad and indent.
func looksLikeMarkdown(s string) bool {
	return strings.ContainsAny(s, "*_`#>[") || strings.Contains(s, "\n- ")
}

func (m *markdownRenderer) render(text string, width int) string {
	plain := lipgloss.NewStyle().Width(width).Render(text)
	if m == nil || !m.enabled || !looksLikeMarkdown(text) {
		return plain
	}
	if m.r == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.enabled = false
			return plain
		}
		m.r, m.width = r, width
	}
	out, err := m.r.Render(text)
	if err != nil {
		return plain
	}
	return strings.Trim(out, "\n")
}
