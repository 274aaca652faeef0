package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davemunger/playdeck/pkg/domain"
)

// Shimmer animation for the PLAYDECK logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "PLAYDECK" as a flowing wave of arcade
// blue. Deep navy (#122848) -> electric cyan (#4ac8f0). No hue drift.
func renderShimmerLogo(frame int) string {
	const text = "PLAYDECK"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// One smooth wave advancing through the text
		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Continuous RGB interpolation: deep navy -> electric cyan
		r := clampByte(18 + b*(74-18))
		g := clampByte(40 + b*(200-40))
		bl := clampByte(72 + b*(240-72))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles — playdeck neutral palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Accent / action styles
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ac8f0"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ac8f0")).
			Bold(true)

	// Tokens and money
	tokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f4c84a")).
			Bold(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f4c84a"))

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#43e88c"))

	ownedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#43e88c")).
			Bold(true)

	wishStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c084e0"))

	featuredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a")).
			Bold(true)

	ratingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	// Error panel for blocking page-level failures
	errorPanelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#43e88c"))

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Surface colors
	borderColor  = lipgloss.Color("#1e1e2a")
	surfaceColor = lipgloss.Color("#111118")

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	// Genre colors for the catalog filter bar and list dots
	genreColors = map[string]lipgloss.Color{
		"action":     lipgloss.Color("#e06060"),
		"adventure":  lipgloss.Color("#43e88c"),
		"rpg":        lipgloss.Color("#b080d0"),
		"strategy":   lipgloss.Color("#60a0e0"),
		"simulation": lipgloss.Color("#3ecce4"),
		"puzzle":     lipgloss.Color("#f0944a"),
		"racing":     lipgloss.Color("#f4c84a"),
		"sports":     lipgloss.Color("#4ac8f0"),
		"horror":     lipgloss.Color("#d05050"),
		"indie":      lipgloss.Color("#c084e0"),
		"casual":     lipgloss.Color("#8890a0"),
	}

	// Severity colors for the notification tray
	severityColors = map[domain.Severity]lipgloss.Color{
		domain.SeveritySuccess: lipgloss.Color("#43e88c"),
		domain.SeverityError:   lipgloss.Color("#e06060"),
		domain.SeverityWarning: lipgloss.Color("#f4c84a"),
		domain.SeverityInfo:    lipgloss.Color("#4ac8f0"),
	}
)

// GenreStyle returns a bold style colored for the given genre.
func GenreStyle(genre string) lipgloss.Style {
	if c, ok := genreColors[strings.ToLower(genre)]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// SeverityStyle returns the tray style for a notification severity.
func SeverityStyle(s domain.Severity) lipgloss.Style {
	if c, ok := severityColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// severityGlyph is the tray marker per severity.
func severityGlyph(s domain.Severity) string {
	switch s {
	case domain.SeveritySuccess:
		return "✓"
	case domain.SeverityError:
		return "✗"
	case domain.SeverityWarning:
		return "!"
	default:
		return "·"
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"Website", "playdeck.games", "https://playdeck.games"},
	{"Support", "playdeck.games/support", "https://playdeck.games/support"},
	{"Terms of Service", "playdeck.games/terms", "https://playdeck.games/terms"},
	{"Privacy Policy", "playdeck.games/privacy", "https://playdeck.games/privacy"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ac8f0")).
		Bold(true).
		Render("P L A Y D E C K")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Your game marketplace, one terminal away.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ac8f0"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	keys := []struct{ cmd, desc string }{
		{"1-4", "Front / Catalog / Library / Account"},
		{"j/k", "move the cursor"},
		{"/", "search the current list"},
		{"s", "cycle sort order"},
		{"g", "cycle genre filter"},
		{"[ ]", "previous / next page"},
		{"x", "dismiss a notification"},
		{"q", "quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.cmd)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
