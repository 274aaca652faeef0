package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davemunger/playdeck/internal/browse"
	"github.com/davemunger/playdeck/internal/notify"
	"github.com/davemunger/playdeck/internal/session"
	"github.com/davemunger/playdeck/pkg/client"
	"github.com/davemunger/playdeck/pkg/domain"
)

type catalogLoadedMsg struct {
	games []domain.Game
	err   error
}

type genresLoadedMsg struct {
	genres []domain.Genre
	err    error
}

type gameLoadedMsg struct {
	game *domain.Game
	err  error
}

type wishlistToggledMsg struct {
	gameID     string
	wishlisted bool
	err        error
}

type purchaseDoneMsg struct {
	gameID  string
	receipt *domain.Purchase
	err     error
}

// balanceSyncedMsg signals that the deferred balance reconciliation
// finished; the header re-reads the store on the next render.
type balanceSyncedMsg struct{}

type copyLinkMsg struct{ err error }

type catalogModel struct {
	client  *client.Client
	store   *session.Store
	notices *notify.Queue

	games    []domain.Game
	genres   []domain.Genre
	genreIdx int // index into genres; -1 = all
	sortKey  browse.SortKey
	search   string
	editing  bool // true when typing in search
	cursor   int  // within the visible page
	pageIdx  int

	detail     bool
	detailGame *domain.Game
	buying     bool

	loading   bool
	err       string
	statusMsg string
	width     int
	height    int
}

func newCatalogModel(c *client.Client, s *session.Store, n *notify.Queue) catalogModel {
	return catalogModel{
		client:   c,
		store:    s,
		notices:  n,
		genreIdx: -1,
		sortKey:  browse.SortByName,
		loading:  true,
	}
}

func (m catalogModel) genreFilter() string {
	if m.genreIdx < 0 || m.genreIdx >= len(m.genres) {
		return ""
	}
	return m.genres[m.genreIdx].Name
}

// derived applies the shared filter/sort/page pipeline to the list the
// server already returned. Pure recomputation on every render; no
// round trip.
func (m catalogModel) derived() ([]domain.Game, int) {
	filtered := browse.FilterGames(m.games, m.search)
	sorted := browse.SortGames(filtered, m.sortKey)
	return browse.Page(sorted, pageSize, m.pageIdx)
}

func (m catalogModel) loadGames() tea.Cmd {
	c := m.client
	genre := m.genreFilter()
	return func() tea.Msg {
		games, err := c.ListGames(context.Background(), genre)
		return catalogLoadedMsg{games: games, err: err}
	}
}

func (m catalogModel) loadGenres() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		genres, err := c.ListGenres(context.Background())
		return genresLoadedMsg{genres: genres, err: err}
	}
}

func (m catalogModel) Init() tea.Cmd {
	return tea.Batch(m.loadGames(), m.loadGenres())
}

// openGame jumps straight into the detail view for a game id, used
// when another page hands the selection over.
func (m catalogModel) openGame(id string) (catalogModel, tea.Cmd) {
	m.detail = true
	m.detailGame = nil
	c := m.client
	return m, func() tea.Msg {
		game, err := c.GetGame(context.Background(), id)
		return gameLoadedMsg{game: game, err: err}
	}
}

func (m catalogModel) Update(msg tea.Msg) (catalogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.games = msg.games
		m.cursor = 0
		m.pageIdx = 0
		return m, nil

	case genresLoadedMsg:
		// Genre bar is decoration when this fails; the page still works.
		if msg.err == nil {
			m.genres = msg.genres
		}
		return m, nil

	case gameLoadedMsg:
		if msg.err != nil {
			m.detail = false
			m.notices.Error(client.UserMessage(msg.err))
			return m, nil
		}
		m.detailGame = msg.game
		return m, nil

	case wishlistToggledMsg:
		if msg.err != nil {
			m.notices.Error(client.UserMessage(msg.err))
			return m, nil
		}
		m.applyWishlist(msg.gameID, msg.wishlisted)
		if msg.wishlisted {
			m.notices.Success("added to wishlist")
		} else {
			m.notices.Info("removed from wishlist")
		}
		return m, nil

	case purchaseDoneMsg:
		m.buying = false
		if msg.err != nil {
			m.notices.Error(client.UserMessage(msg.err))
			return m, nil
		}
		m.applyOwned(msg.gameID)
		m.notices.Success("purchase complete — added to your library")
		// Optimistically patch the balance the receipt reported, then
		// let the session endpoint have the last word.
		store := m.store
		store.PatchTokenBalance(msg.receipt.NewBalance)
		return m, func() tea.Msg {
			store.ReconcileBalance(context.Background())
			return balanceSyncedMsg{}
		}

	case copyLinkMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "link copied!"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.editing {
			return m.updateSearch(msg)
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// applyWishlist mirrors a confirmed wishlist state into the local lists.
func (m *catalogModel) applyWishlist(gameID string, on bool) {
	for i := range m.games {
		if m.games[i].ID == gameID {
			m.games[i].Wishlisted = on
		}
	}
	if m.detailGame != nil && m.detailGame.ID == gameID {
		m.detailGame.Wishlisted = on
	}
}

func (m *catalogModel) applyOwned(gameID string) {
	for i := range m.games {
		if m.games[i].ID == gameID {
			m.games[i].Owned = true
		}
	}
	if m.detailGame != nil && m.detailGame.ID == gameID {
		m.detailGame.Owned = true
	}
}

func (m catalogModel) updateSearch(msg tea.KeyMsg) (catalogModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.cursor = 0
		m.pageIdx = 0
	case "esc":
		m.editing = false
		m.search = ""
		m.cursor = 0
		m.pageIdx = 0
	default:
		m.search = editRune(m.search, msg.String())
		m.cursor = 0
		m.pageIdx = 0
	}
	return m, nil
}

func (m catalogModel) updateList(msg tea.KeyMsg) (catalogModel, tea.Cmd) {
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
	case "enter":
		if m.cursor < len(visible) {
			return m.openGame(visible[m.cursor].ID)
		}
	case "/":
		m.editing = true
		m.search = ""
	case "s":
		m.sortKey = browse.NextSortKey(m.sortKey)
		m.cursor = 0
		m.pageIdx = 0
	case "g":
		// Cycle all -> first genre -> ... -> last genre -> all. The
		// genre filter is server-side, so this refetches.
		if len(m.genres) > 0 {
			m.genreIdx++
			if m.genreIdx >= len(m.genres) {
				m.genreIdx = -1
			}
			m.cursor = 0
			m.pageIdx = 0
			m.loading = true
			return m, m.loadGames()
		}
	case "w":
		if m.cursor < len(visible) {
			return m.toggleWishlist(visible[m.cursor])
		}
	case "r":
		m.loading = true
		return m, tea.Batch(m.loadGames(), m.loadGenres())
	}
	return m, nil
}

func (m catalogModel) updateDetail(msg tea.KeyMsg) (catalogModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.detail = false
		m.detailGame = nil
	case "b", "enter":
		if m.detailGame != nil && !m.buying {
			return m.buyGame(*m.detailGame)
		}
	case "w":
		if m.detailGame != nil {
			return m.toggleWishlist(*m.detailGame)
		}
	case "o":
		if m.detailGame != nil && m.detailGame.StoreURL != "" {
			return m, openURLCmd(m.detailGame.StoreURL)
		}
	case "c":
		if m.detailGame != nil && m.detailGame.StoreURL != "" {
			link := m.detailGame.StoreURL
			return m, func() tea.Msg {
				return copyLinkMsg{err: clipboard.WriteAll(link)}
			}
		}
	}
	return m, nil
}

// buyGame runs the purchase guards client-side before any network
// call: no session or not enough tokens means a warning notification
// and no request at all.
func (m catalogModel) buyGame(g domain.Game) (catalogModel, tea.Cmd) {
	if g.Owned {
		m.notices.Info("already in your library")
		return m, nil
	}
	identity := m.store.Identity()
	if identity == nil {
		m.notices.Warning("sign in to buy games — open Account (4)")
		return m, nil
	}
	if identity.TokenBalance < g.Price {
		m.notices.Warning("not enough tokens — top up in Account (4)")
		return m, nil
	}
	m.buying = true
	c := m.client
	id := g.ID
	return m, func() tea.Msg {
		receipt, err := c.PurchaseGame(context.Background(), id)
		return purchaseDoneMsg{gameID: id, receipt: receipt, err: err}
	}
}

func (m catalogModel) toggleWishlist(g domain.Game) (catalogModel, tea.Cmd) {
	if !m.store.Authenticated() {
		m.notices.Warning("sign in to use the wishlist — open Account (4)")
		return m, nil
	}
	c := m.client
	id := g.ID
	return m, func() tea.Msg {
		on, err := c.ToggleWishlist(context.Background(), id)
		return wishlistToggledMsg{gameID: id, wishlisted: on, err: err}
	}
}

func (m catalogModel) View() string {
	if m.detail {
		return m.viewDetail()
	}

	var b strings.Builder

	if m.width >= 50 {
		b.WriteString(" " + sectionHeaderStyle.Render("CATALOG") + "  " + metaStyle.Render("every game on the marketplace") + "\n")
	} else {
		b.WriteString(" " + sectionHeaderStyle.Render("CATALOG") + "\n")
	}

	// Search + sort line
	if m.editing {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	} else {
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}
	b.WriteString("   " + searchStyle.Render(string(m.sortKey)+"↑") + " " + helpKeyStyle.Render("s"))
	b.WriteString("\n")

	// Genre bar
	if len(m.genres) > 0 {
		b.WriteString(" ")
		all := "all"
		if m.genreIdx < 0 {
			b.WriteString(selectedStyle.Render(all))
		} else {
			b.WriteString(dimStyle.Render(all))
		}
		used := 1 + len(all)
		for i, g := range m.genres {
			needed := 2 + len(g.Name)
			if used+needed+4 > m.width {
				break
			}
			b.WriteString("  ")
			if i == m.genreIdx {
				b.WriteString(GenreStyle(g.Name).Render(g.Name))
			} else {
				b.WriteString(dimStyle.Render(g.Name))
			}
			used += needed
		}
		b.WriteString("  " + helpKeyStyle.Render("g"))
		b.WriteString("\n")
	}

	// Separator
	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + statusStyle.Render(m.statusMsg) + "\n")
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading catalog..."))
		return b.String()
	}

	// Blocking page-level failure: full error panel instead of content.
	if m.err != "" {
		b.WriteString(" " + errorPanelStyle.Render("couldn't load the catalog") + "\n")
		b.WriteString(" " + dimStyle.Render(m.err) + "\n")
		b.WriteString(" " + dimStyle.Render("press r to retry"))
		return b.String()
	}

	return b.String() + m.viewList()
}

func (m catalogModel) viewList() string {
	visible, pages := m.derived()
	if len(visible) == 0 {
		return " " + dimStyle.Render("no games match")
	}

	var b strings.Builder

	for i, g := range visible {
		cursor := "  "
		titleStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = normalStyle.Bold(true)
		}

		dot := GenreStyle(g.Genre).Render("●") + " "

		// Right columns: genre (10), rating (5), price (10), badges
		showGenre := m.width >= 70
		var rightParts []string
		rightWidth := 0
		if showGenre {
			col := strings.Repeat(" ", 10)
			if g.Genre != "" {
				col = GenreStyle(g.Genre).Render(fmt.Sprintf("%-10s", truncStr(g.Genre, 10)))
			}
			rightParts = append(rightParts, col)
			rightWidth += 11
		}
		if g.Rating > 0 {
			rightParts = append(rightParts, ratingStyle.Render(fmt.Sprintf("%.1f★", g.Rating)))
			rightWidth += 5
		}
		rightParts = append(rightParts, fmt.Sprintf("%10s", formatTokens(g.Price)))
		rightWidth += 11
		switch {
		case g.Owned:
			rightParts = append(rightParts, ownedStyle.Render("owned"))
			rightWidth += 6
		case g.Wishlisted:
			rightParts = append(rightParts, wishStyle.Render("♡"))
			rightWidth += 2
		}

		titleWidth := m.width - 4 - rightWidth
		if titleWidth < 10 {
			titleWidth = 10
		}
		title := truncStr(gameTitle(g), titleWidth)
		titlePadded := fmt.Sprintf("%-*s", titleWidth, title)

		line := cursor + dot + titleStyle.Render(titlePadded) + " " + strings.Join(rightParts, " ")
		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	// Page footer
	b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("page %d/%d", m.pageIdx+1, pages)))
	if pages > 1 {
		b.WriteString("  " + helpEntry("[ ]", "flip"))
	}
	b.WriteString("\n")

	return truncateToHeight(b.String(), m.height)
}

func (m catalogModel) viewDetail() string {
	var b strings.Builder
	b.WriteString(" " + dimStyle.Render("<- back (esc)") + "\n")

	if m.detailGame == nil {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	g := *m.detailGame

	b.WriteString(" " + selectedStyle.Render(gameTitle(g)) + "\n")

	// Meta line: genre · developer · rating · price
	meta := " "
	if g.Genre != "" {
		meta += GenreStyle(g.Genre).Render(g.Genre)
	}
	if g.Developer != "" {
		meta += metaStyle.Render(" · ") + normalStyle.Render(g.Developer)
	}
	if g.Rating > 0 {
		meta += metaStyle.Render(" · ") + ratingStyle.Render(fmt.Sprintf("%.1f★", g.Rating))
	}
	meta += metaStyle.Render(" · ") + priceLabel(g)
	if g.Owned {
		meta += "  " + ownedStyle.Render("owned")
	}
	if g.Wishlisted {
		meta += "  " + wishStyle.Render("♡ wishlisted")
	}
	b.WriteString(meta + "\n\n")

	// Cover art is a web asset; the terminal shows a placeholder line.
	if g.ImageURL != "" {
		b.WriteString(" " + metaStyle.Render("[cover] "+truncStr(g.ImageURL, m.width-12)) + "\n")
	} else {
		b.WriteString(" " + metaStyle.Render("[no cover art]") + "\n")
	}
	b.WriteString("\n")

	desc := g.Description
	if strings.TrimSpace(desc) == "" {
		desc = "No description provided."
	}
	detailWidth := m.width - 4
	if detailWidth < 40 {
		detailWidth = 40
	}
	wrapped := lipgloss.NewStyle().Width(detailWidth).Render(desc)
	for _, line := range strings.Split(wrapped, "\n") {
		b.WriteString(" " + normalStyle.Render(line) + "\n")
	}

	if !g.ReleasedAt.IsZero() {
		b.WriteString("\n " + metaStyle.Render("released "+formatTime(g.ReleasedAt)) + "\n")
	}
	if g.StoreURL != "" {
		b.WriteString(" " + metaStyle.Render(g.StoreURL) + "\n")
	}

	b.WriteString("\n")
	if m.buying {
		b.WriteString(" " + dimStyle.Render("purchasing..."))
	} else if m.statusMsg != "" {
		b.WriteString(" " + statusStyle.Render(m.statusMsg))
	}

	return truncateToHeight(b.String(), m.height)
}
