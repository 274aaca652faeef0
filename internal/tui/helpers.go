package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davemunger/playdeck/pkg/domain"
)

// pageSize is the number of rows shown per catalog/library page.
const pageSize = 10

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing. Handles
// backspace (rune-aware) and single printable characters; other keys
// leave the text unchanged. Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// formatTime renders a relative timestamp for library/receipt displays.
func formatTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// formatTokens renders a token amount. A missing price renders as
// "free" rather than an empty field.
func formatTokens(v float64) string {
	if v <= 0 {
		return "free"
	}
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d ⬢", int64(v))
	}
	return fmt.Sprintf("%.2f ⬢", v)
}

// priceLabel renders a game's price with the style matching its value.
func priceLabel(g domain.Game) string {
	if g.Price <= 0 {
		return freeStyle.Render("free")
	}
	return priceStyle.Render(formatTokens(g.Price))
}

// gameTitle renders a game name, falling back to a placeholder when
// the server payload omits it.
func gameTitle(g domain.Game) string {
	if strings.TrimSpace(g.Name) == "" {
		return "(untitled)"
	}
	return g.Name
}
