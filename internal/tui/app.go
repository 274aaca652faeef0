package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davemunger/playdeck/internal/browser"
	"github.com/davemunger/playdeck/internal/notify"
	"github.com/davemunger/playdeck/internal/session"
	"github.com/davemunger/playdeck/pkg/client"
)

type view int

const (
	viewFront view = iota
	viewCatalog
	viewLibrary
	viewAccount
)

// App is the root Bubbletea model.
type App struct {
	client  *client.Client
	store   *session.Store
	notices *notify.Queue

	view       view
	front      frontModel
	catalog    catalogModel
	library    libraryModel
	account    accountModel
	helpOpen   bool
	helpCursor int
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(c *client.Client, s *session.Store, n *notify.Queue) App {
	return App{
		client:  c,
		store:   s,
		notices: n,
		front:   newFrontModel(c),
		catalog: newCatalogModel(c, s, n),
		library: newLibraryModel(c, s),
		account: newAccountModel(c, s, n),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.front.Init(), shimmerTickCmd(), a.probeSession())
}

// probeSession restores an existing session from the cookie jar before
// the first frame settles. The probe never fails outward, so the
// message fires unconditionally.
func (a App) probeSession() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		store.ProbeSession(context.Background())
		return sessionChangedMsg{}
	}
}

// openURLCmd hands a store page to the system browser, best-effort.
func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		browser.Open(url) //nolint:errcheck // best-effort browser open
		return nil
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + tray(1) + help(1) = 5 lines
		bodyHeight := msg.Height - 5
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: bodyHeight}
		a.front, _ = a.front.Update(bodyMsg)
		a.catalog, _ = a.catalog.Update(bodyMsg)
		a.library, _ = a.library.Update(bodyMsg)
		a.account, _ = a.account.Update(bodyMsg)

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionChangedMsg:
		// Identity was replaced: pages that render per-session data
		// (library contents, ownership badges) need to hear about it.
		var libCmd, acctCmd tea.Cmd
		a.library, libCmd = a.library.Update(msg)
		a.account, acctCmd = a.account.Update(msg)
		return a, tea.Batch(libCmd, acctCmd, a.catalog.loadGames())

	case showGameMsg:
		a.view = viewCatalog
		var cmd tea.Cmd
		a.catalog, cmd = a.catalog.openGame(msg.id)
		return a, cmd

	case tea.KeyMsg:
		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := helpItems[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			switch msg.String() {
			case "h":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q", "ctrl+c":
				return a, tea.Quit
			case "x":
				if items := a.notices.Items(); len(items) > 0 {
					a.notices.Dismiss(items[0].ID)
				}
				return a, nil
			case "1":
				if a.view != viewFront {
					a.view = viewFront
					return a, a.front.Init()
				}
				return a, nil
			case "2":
				if a.view != viewCatalog {
					a.view = viewCatalog
					return a, a.catalog.Init()
				}
				return a, nil
			case "3":
				if a.view != viewLibrary {
					a.view = viewLibrary
					return a, a.library.Init()
				}
				return a, nil
			case "4":
				if a.view != viewAccount {
					a.view = viewAccount
					return a, a.account.Init()
				}
				return a, nil
			}
		} else if msg.String() == "esc" && a.view == viewAccount {
			// The sign-in form is always editing; esc still backs out.
			a.view = viewFront
			return a, a.front.Init()
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewFront:
		a.front, cmd = a.front.Update(msg)
	case viewCatalog:
		a.catalog, cmd = a.catalog.Update(msg)
	case viewLibrary:
		a.library, cmd = a.library.Update(msg)
	case viewAccount:
		a.account, cmd = a.account.Update(msg)
	}

	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewFront:
		return a.front.editing
	case viewCatalog:
		return a.catalog.editing
	case viewLibrary:
		return a.library.editing
	case viewAccount:
		return a.account.editing()
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)

	// Identity line below logo
	var identity string
	switch a.store.State() {
	case session.StateProbing:
		identity = metaStyle.Render("connecting...")
	case session.StateAuthenticated:
		if u := a.store.Identity(); u != nil {
			identity = metaStyle.Render("@"+u.Username) + metaStyle.Render(" · ") + tokenStyle.Render(formatTokens(u.TokenBalance))
		}
	default:
		identity = metaStyle.Render("browsing as guest — press 4 to sign in")
	}

	// Center the logo within terminal width
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	if identity != "" {
		idWidth := lipgloss.Width(identity)
		idPad := (a.width - idWidth) / 2
		if idPad < 0 {
			idPad = 0
		}
		header += "\n" + strings.Repeat(" ", idPad) + identity
	} else {
		header += "\n"
	}

	// Tab bar: 1 Front  2 Catalog  3 Library  4 Account
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Front", viewFront},
		{"2", "Catalog", viewCatalog},
		{"3", "Library", viewLibrary},
		{"4", "Account", viewAccount},
	}

	// 4 equal-width columns spread across the terminal
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	centeredTabs := tabBar.String()

	// Body
	var body string
	var help string
	switch a.view {
	case viewFront:
		body = a.front.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("enter", "view") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	case viewCatalog:
		body = a.catalog.View()
		if a.catalog.detail {
			help = " " + helpEntry("b", "buy") + "  " + helpEntry("w", "wishlist") + "  " + helpEntry("o", "open") + "  " + helpEntry("c", "copy link") + "  " + helpEntry("esc", "back")
		} else {
			help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("s", "sort") + "  " + helpEntry("g", "genre") + "  " + helpEntry("[/]", "page") + "  " + helpEntry("w", "wishlist") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
		}
	case viewLibrary:
		body = a.library.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("s", "sort") + "  " + helpEntry("enter", "view") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	case viewAccount:
		body = a.account.View()
		if a.account.editing() {
			help = " " + helpEntry("tab", "next field") + "  " + helpEntry("ctrl+r", "switch form") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "back")
		} else {
			help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "buy pack") + "  " + helpEntry("o", "sign out") + "  " + helpEntry("q", "quit")
		}
	}

	// Help overlay
	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Notification tray sits just above the help bar
	tray := renderTray(a.notices.Items(), a.width)
	trayLines := 0
	if tray != "" {
		trayLines = strings.Count(tray, "\n") + 1
	}

	// Chrome: header(2) + tabs(1) + tray + help(1)
	chrome := 4 + trayLines
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	if tray != "" {
		return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, centeredTabs, body, tray, help)
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, centeredTabs, body, help)
}
