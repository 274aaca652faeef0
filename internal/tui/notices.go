package tui

import (
	"strings"

	"github.com/davemunger/playdeck/pkg/domain"
)

// renderTray draws the pending notifications oldest-first, one per
// line. The oldest is the one "x" dismisses, so it gets the hint.
func renderTray(items []domain.Notification, width int) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, n := range items {
		style := SeverityStyle(n.Severity)
		line := " " + style.Render(severityGlyph(n.Severity)+" "+truncStr(n.Message, width-12))
		if i == 0 {
			line += "  " + helpKeyStyle.Render("x") + helpLabelStyle.Render(" dismiss")
		}
		b.WriteString(line)
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
