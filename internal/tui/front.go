package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davemunger/playdeck/internal/browse"
	"github.com/davemunger/playdeck/pkg/client"
	"github.com/davemunger/playdeck/pkg/domain"
)

// showGameMsg asks the app to open a game's detail page (which lives
// on the catalog view).
type showGameMsg struct {
	id string
}

type frontLoadedMsg struct {
	games []domain.Game
	err   error
}

// frontModel is the storefront landing page: featured picks up top,
// newest releases below.
type frontModel struct {
	client  *client.Client
	games   []domain.Game
	cursor  int
	search  string
	editing bool
	loading bool
	err     string
	width   int
	height  int
}

func newFrontModel(c *client.Client) frontModel {
	return frontModel{client: c, loading: true}
}

func (m frontModel) Init() tea.Cmd {
	return m.load()
}

func (m frontModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		games, err := c.ListGames(context.Background(), "")
		return frontLoadedMsg{games: games, err: err}
	}
}

// rows derives the landing list: featured games first, then the rest
// by recency, all filtered by the search term.
func (m frontModel) rows() []domain.Game {
	filtered := browse.FilterGames(m.games, m.search)
	var featured, rest []domain.Game
	for _, g := range filtered {
		if g.Featured {
			featured = append(featured, g)
		} else {
			rest = append(rest, g)
		}
	}
	out := append(featured, browse.SortGames(rest, browse.SortRecent)...)
	visible, _ := browse.Page(out, pageSize, 0)
	return visible
}

func (m frontModel) Update(msg tea.Msg) (frontModel, tea.Cmd) {
	switch msg := msg.(type) {
	case frontLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
		} else {
			m.err = ""
			m.games = msg.games
			if m.cursor >= len(m.games) {
				m.cursor = 0
			}
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
				m.cursor = 0
			case "esc":
				m.editing = false
				m.search = ""
				m.cursor = 0
			default:
				m.search = editRune(m.search, msg.String())
				m.cursor = 0
			}
			return m, nil
		}

		rows := m.rows()
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "/":
			m.editing = true
			m.search = ""
		case "enter":
			if m.cursor < len(rows) {
				id := rows[m.cursor].ID
				return m, func() tea.Msg { return showGameMsg{id: id} }
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m frontModel) View() string {
	var b strings.Builder

	if m.width >= 56 {
		b.WriteString(" " + sectionHeaderStyle.Render("FRONT PAGE") + "  " + metaStyle.Render("featured and fresh") + "\n")
	} else {
		b.WriteString(" " + sectionHeaderStyle.Render("FRONT PAGE") + "\n")
	}

	if m.editing {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█") + "\n")
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search) + "\n")
	} else {
		b.WriteString(" " + dimStyle.Render("/ search...") + "\n")
	}

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading storefront..."))
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorPanelStyle.Render("couldn't load the storefront") + "\n")
		b.WriteString(" " + dimStyle.Render(m.err) + "\n")
		b.WriteString(" " + dimStyle.Render("press r to retry"))
		return b.String()
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(" " + dimStyle.Render("no games match"))
		return b.String()
	}

	for i, g := range rows {
		cursor := "  "
		titleStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = normalStyle.Bold(true)
		}

		badge := "  "
		if g.Featured {
			badge = featuredStyle.Render("✦") + " "
		}

		rightWidth := 11
		titleWidth := m.width - 4 - rightWidth
		if titleWidth < 10 {
			titleWidth = 10
		}
		line := cursor + badge + titleStyle.Render(truncStr(gameTitle(g), titleWidth))
		pad := m.width - lipgloss.Width(line) - rightWidth
		if pad < 1 {
			pad = 1
		}
		line += strings.Repeat(" ", pad) + priceLabel(g)

		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n " + helpEntry("enter", "view game") + "  " + helpEntry("2", "full catalog") + "\n")

	return truncateToHeight(b.String(), m.height)
}
