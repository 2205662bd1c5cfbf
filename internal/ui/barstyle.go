package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// barPaint renders header-bar segments on a shared background. lipgloss
// emits an ANSI reset after every styled segment, so an unstyled space
// between two segments shows through as a gap in the bar
// (https://github.com/charmbracelet/lipgloss/discussions/78); every space
// that belongs to the bar therefore goes through here.
type barPaint struct {
	bg    lipgloss.Color
	plain lipgloss.Style
}

func newBarPaint(color string) barPaint {
	bg := lipgloss.Color(color)
	return barPaint{bg: bg, plain: lipgloss.NewStyle().Background(bg)}
}

// text renders s with the given foreground style on the bar background,
// word by word so interior spaces keep the background too.
func (p barPaint) text(s string, style lipgloss.Style) string {
	if s == "" {
		return ""
	}
	styled := style.Background(p.bg)
	if !strings.ContainsRune(s, ' ') {
		return styled.Render(s)
	}
	var b strings.Builder
	for i, word := range strings.Split(s, " ") {
		if i > 0 {
			b.WriteString(p.plain.Render(" "))
		}
		if word != "" {
			b.WriteString(styled.Render(word))
		}
	}
	return b.String()
}

// gap returns n bar-colored spaces.
func (p barPaint) gap(n int) string {
	return p.plain.Render(strings.Repeat(" ", n))
}

// glue renders a literal separator on the bar background.
func (p barPaint) glue(s string) string {
	return p.plain.Render(s)
}

// row joins segments with a bar-colored separator.
func (p barPaint) row(parts []string, sep string) string {
	return strings.Join(parts, p.glue(sep))
}
