package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davemunger/playdeck/internal/browse"
	"github.com/davemunger/playdeck/internal/session"
	"github.com/davemunger/playdeck/pkg/client"
	"github.com/davemunger/playdeck/pkg/domain"
)

type libraryLoadedMsg struct {
	entries []domain.LibraryEntry
	err     error
}

type libraryModel struct {
	client *client.Client
	store  *session.Store

	entries []domain.LibraryEntry
	cursor  int
	search  string
	editing bool
	sortKey browse.SortKey
	pageIdx int
	loading bool
	err     string
	width   int
	height  int
}

func newLibraryModel(c *client.Client, s *session.Store) libraryModel {
	return libraryModel{client: c, store: s, sortKey: browse.SortRecent}
}

func (m libraryModel) Init() tea.Cmd {
	if !m.store.Authenticated() {
		return nil
	}
	return m.load()
}

func (m libraryModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		entries, err := c.ListLibrary(context.Background())
		return libraryLoadedMsg{entries: entries, err: err}
	}
}

// derived filters by the search term over the owned games, sorts, and
// pages — all in memory.
func (m libraryModel) derived() ([]domain.LibraryEntry, int) {
	filtered := m.entries
	if strings.TrimSpace(m.search) != "" {
		filtered = nil
		for _, e := range m.entries {
			if browse.MatchGame(e.Game, m.search) {
				filtered = append(filtered, e)
			}
		}
	}
	sorted := browse.SortLibrary(filtered, m.sortKey)
	return browse.Page(sorted, pageSize, m.pageIdx)
}

func (m libraryModel) Update(msg tea.Msg) (libraryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case libraryLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
		} else {
			m.err = ""
			m.entries = msg.entries
			m.cursor = 0
			m.pageIdx = 0
		}
		return m, nil

	case sessionChangedMsg:
		// A fresh login (or logout) invalidates whatever was loaded.
		m.entries = nil
		m.cursor = 0
		m.pageIdx = 0
		if m.store.Authenticated() {
			m.loading = true
			return m, m.load()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "enter":
				m.editing = false
			case "esc":
				m.editing = false
				m.search = ""
			default:
				m.search = editRune(m.search, msg.String())
			}
			m.cursor = 0
			m.pageIdx = 0
			return m, nil
		}

		visible, pages := m.derived()
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(visible)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "]", "l", "right":
			if m.pageIdx < pages-1 {
				m.pageIdx++
				m.cursor = 0
			}
		case "[", "left":
			if m.pageIdx > 0 {
				m.pageIdx--
				m.cursor = 0
			}
		case "/":
			m.editing = true
			m.search = ""
		case "s":
			m.sortKey = browse.NextSortKey(m.sortKey)
			m.cursor = 0
			m.pageIdx = 0
		case "enter":
			if m.cursor < len(visible) {
				id := visible[m.cursor].Game.ID
				return m, func() tea.Msg { return showGameMsg{id: id} }
			}
		case "r":
			if m.store.Authenticated() {
				m.loading = true
				return m, m.load()
			}
		}
	}
	return m, nil
}

func (m libraryModel) View() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("LIBRARY") + "\n")

	if !m.store.Authenticated() {
		b.WriteString("\n " + dimStyle.Render("your games live here — sign in from the Account tab (4)"))
		return b.String()
	}

	if m.editing {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	} else {
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}
	b.WriteString("   " + searchStyle.Render(string(m.sortKey)+"↑") + " " + helpKeyStyle.Render("s"))
	b.WriteString("\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading library..."))
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorPanelStyle.Render("couldn't load your library") + "\n")
		b.WriteString(" " + dimStyle.Render(m.err) + "\n")
		b.WriteString(" " + dimStyle.Render("press r to retry"))
		return b.String()
	}

	visible, pages := m.derived()
	if len(visible) == 0 {
		if len(m.entries) == 0 {
			b.WriteString(" " + dimStyle.Render("no games yet — the catalog awaits (2)"))
		} else {
			b.WriteString(" " + dimStyle.Render("no games match"))
		}
		return b.String()
	}

	for i, e := range visible {
		cursor := "  "
		titleStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = normalStyle.Bold(true)
		}

		dot := GenreStyle(e.Game.Genre).Render("●") + " "

		when := metaStyle.Render(fmt.Sprintf("%12s", formatTime(e.PurchasedAt)))
		hours := ""
		if e.Hours > 0 {
			hours = metaStyle.Render(fmt.Sprintf("  %.1fh", e.Hours))
		}

		rightWidth := 12 + lipgloss.Width(hours) + 2
		titleWidth := m.width - 4 - rightWidth
		if titleWidth < 10 {
			titleWidth = 10
		}
		titlePadded := fmt.Sprintf("%-*s", titleWidth, truncStr(gameTitle(e.Game), titleWidth))

		line := cursor + dot + titleStyle.Render(titlePadded) + " " + when + hours
		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("page %d/%d", m.pageIdx+1, pages)))
	if pages > 1 {
		b.WriteString("  " + helpEntry("[ ]", "flip"))
	}
	b.WriteString("\n")

	return truncateToHeight(b.String(), m.height)
}
