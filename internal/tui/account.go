package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davemunger/playdeck/internal/notify"
	"github.com/davemunger/playdeck/internal/session"
	"github.com/davemunger/playdeck/pkg/client"
	"github.com/davemunger/playdeck/pkg/domain"
)

// sessionChangedMsg tells every page that the identity was replaced
// (login, register, or logout). The app broadcasts it.
type sessionChangedMsg struct{}

type authResultMsg struct {
	result     session.Result
	registered bool
}

type packsLoadedMsg struct {
	packs []domain.TokenPack
	err   error
}

type packBoughtMsg struct {
	receipt *domain.Purchase
	err     error
}

type accountForm int

const (
	formLogin accountForm = iota
	formRegister
)

// Field layout: login uses username+password, register adds email.
type accountField int

const (
	fieldUsername accountField = iota
	fieldEmail
	fieldPassword
	numAccountFields
)

type accountModel struct {
	store   *session.Store
	client  *client.Client
	notices *notify.Queue

	form       accountForm
	fields     [numAccountFields]string
	focus      accountField
	formErr    string // form errors render inline, never as notifications
	submitting bool

	packs       []domain.TokenPack
	packCursor  int
	packsLoaded bool
	buyingPack  bool

	width  int
	height int
}

func newAccountModel(c *client.Client, s *session.Store, n *notify.Queue) accountModel {
	return accountModel{store: s, client: c, notices: n}
}

func (m accountModel) Init() tea.Cmd {
	if m.store.Authenticated() && !m.packsLoaded {
		return m.loadPacks()
	}
	return nil
}

func (m accountModel) loadPacks() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		packs, err := c.ListTokenPacks(context.Background())
		return packsLoadedMsg{packs: packs, err: err}
	}
}

// editing reports whether the page is capturing typed input, which is
// true whenever the anonymous form is showing.
func (m accountModel) editing() bool {
	return !m.store.Authenticated() && m.store.State() != session.StateProbing
}

func (m accountModel) fieldActive(f accountField) bool {
	if m.form == formLogin && f == fieldEmail {
		return false
	}
	return true
}

func (m accountModel) nextFocus(cur accountField, dir int) accountField {
	f := cur
	for {
		f = accountField((int(f) + dir + int(numAccountFields)) % int(numAccountFields))
		if m.fieldActive(f) {
			return f
		}
	}
}

func (m accountModel) Update(msg tea.Msg) (accountModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.submitting = false
		if !msg.result.OK {
			m.formErr = msg.result.Message
			return m, nil
		}
		m.formErr = ""
		m.fields = [numAccountFields]string{}
		m.focus = fieldUsername
		if msg.registered {
			m.notices.Success("account created — welcome to playdeck")
		} else {
			m.notices.Success("signed in")
		}
		return m, tea.Batch(
			m.loadPacks(),
			func() tea.Msg { return sessionChangedMsg{} },
		)

	case sessionChangedMsg:
		if !m.store.Authenticated() {
			m.packs = nil
			m.packsLoaded = false
			m.packCursor = 0
		}
		return m, nil

	case packsLoadedMsg:
		// The profile still renders without packs; failures are quiet.
		if msg.err == nil {
			m.packs = msg.packs
			m.packsLoaded = true
		}
		return m, nil

	case packBoughtMsg:
		m.buyingPack = false
		if msg.err != nil {
			m.notices.Error(client.UserMessage(msg.err))
			return m, nil
		}
		m.notices.Success("tokens added to your balance")
		store := m.store
		store.PatchTokenBalance(msg.receipt.NewBalance)
		return m, func() tea.Msg {
			store.ReconcileBalance(context.Background())
			return balanceSyncedMsg{}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing() {
			return m.updateForm(msg)
		}
		return m.updateProfile(msg)
	}
	return m, nil
}

func (m accountModel) updateForm(msg tea.KeyMsg) (accountModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "ctrl+r":
		if m.form == formLogin {
			m.form = formRegister
		} else {
			m.form = formLogin
		}
		m.formErr = ""
		m.focus = fieldUsername
	case "tab", "down":
		m.focus = m.nextFocus(m.focus, 1)
	case "shift+tab", "up":
		m.focus = m.nextFocus(m.focus, -1)
	case "enter":
		// Enter advances; on the last field it submits.
		if m.focus == fieldPassword {
			return m.submit()
		}
		m.focus = m.nextFocus(m.focus, 1)
	default:
		edited := editRune(m.fields[m.focus], msg.String())
		if edited != m.fields[m.focus] {
			m.fields[m.focus] = edited
			m.formErr = ""
		}
	}
	return m, nil
}

// submit validates nothing itself: the session store owns the
// empty-field rules and returns a failure result before any network
// call, which lands back here as an inline form error.
func (m accountModel) submit() (accountModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	store := m.store
	username := strings.TrimSpace(m.fields[fieldUsername])
	email := strings.TrimSpace(m.fields[fieldEmail])
	password := m.fields[fieldPassword]
	register := m.form == formRegister
	return m, func() tea.Msg {
		if register {
			return authResultMsg{result: store.Register(context.Background(), username, email, password), registered: true}
		}
		return authResultMsg{result: store.Login(context.Background(), username, password)}
	}
}

func (m accountModel) updateProfile(msg tea.KeyMsg) (accountModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.packCursor < len(m.packs)-1 {
			m.packCursor++
		}
	case "k", "up":
		if m.packCursor > 0 {
			m.packCursor--
		}
	case "enter":
		if m.packCursor < len(m.packs) && !m.buyingPack {
			return m.buyPack(m.packs[m.packCursor])
		}
	case "o":
		store := m.store
		return m, func() tea.Msg {
			store.Logout(context.Background())
			return sessionChangedMsg{}
		}
	case "r":
		// Re-pull identity and packs; balance may have moved on
		// another device.
		store := m.store
		return m, tea.Batch(m.loadPacks(), func() tea.Msg {
			store.RefreshFromServer(context.Background())
			return balanceSyncedMsg{}
		})
	}
	return m, nil
}

func (m accountModel) buyPack(p domain.TokenPack) (accountModel, tea.Cmd) {
	m.buyingPack = true
	c := m.client
	id := p.ID
	return m, func() tea.Msg {
		receipt, err := c.PurchaseTokenPack(context.Background(), id)
		return packBoughtMsg{receipt: receipt, err: err}
	}
}

func (m accountModel) View() string {
	if m.store.State() == session.StateProbing {
		return " " + dimStyle.Render("checking session...")
	}
	if m.editing() {
		return m.viewForm()
	}
	return m.viewProfile()
}

func (m accountModel) viewForm() string {
	var b strings.Builder

	if m.form == formLogin {
		b.WriteString(" " + sectionHeaderStyle.Render("SIGN IN") + "  " + dimStyle.Render("new here?") + " " + helpEntry("ctrl+r", "register") + "\n\n")
	} else {
		b.WriteString(" " + sectionHeaderStyle.Render("CREATE ACCOUNT") + "  " + dimStyle.Render("have one?") + " " + helpEntry("ctrl+r", "sign in") + "\n\n")
	}

	labels := [numAccountFields]string{"username", "email", "password"}
	for f := accountField(0); f < numAccountFields; f++ {
		if !m.fieldActive(f) {
			continue
		}
		cursor := " "
		style := metaStyle
		if f == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[f]
		if f == fieldPassword {
			value = strings.Repeat("•", len([]rune(value)))
		}
		if f == m.focus {
			value += "█"
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-8s", labels[f])), value)
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("signing in..."))
	} else if m.formErr != "" {
		b.WriteString(" " + errorPanelStyle.Render(m.formErr))
	} else {
		b.WriteString(" " + inputPlaceholderStyle.Render("enter to submit"))
	}

	return b.String()
}

func (m accountModel) viewProfile() string {
	u := m.store.Identity()
	if u == nil {
		return " " + dimStyle.Render("signed out")
	}

	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("ACCOUNT") + "\n\n")

	name := selectedStyle.Render(u.DisplayName())
	if u.IsAdmin {
		name += "  " + featuredStyle.Render("[admin]")
	}
	b.WriteString(" " + name + "\n")
	b.WriteString(" " + metaStyle.Render("@"+u.Username))
	if u.Email != "" {
		b.WriteString(metaStyle.Render(" · ") + metaStyle.Render(u.Email))
	}
	b.WriteString("\n\n")

	b.WriteString(" " + dimStyle.Render("balance") + "  " + tokenStyle.Render(formatTokens(u.TokenBalance)) + "\n")

	if len(m.packs) > 0 {
		b.WriteString("\n " + sectionHeaderStyle.Render("── TOKEN PACKS ──") + "\n")
		for i, p := range m.packs {
			cursor := "  "
			style := dimStyle
			if i == m.packCursor {
				cursor = accentStyle.Render("▸") + " "
				style = normalStyle.Bold(true)
			}
			label := fmt.Sprintf("%-18s", truncStr(p.Name, 18))
			tokens := tokenStyle.Render(formatTokens(p.Tokens + p.Bonus))
			price := metaStyle.Render(fmt.Sprintf("$%.2f", p.PriceUSD))
			bonus := ""
			if p.Bonus > 0 {
				bonus = "  " + freeStyle.Render(fmt.Sprintf("+%s bonus", formatTokens(p.Bonus)))
			}
			fmt.Fprintf(&b, " %s%s %s  %s%s\n", cursor, style.Render(label), tokens, price, bonus)
		}
		if m.buyingPack {
			b.WriteString(" " + dimStyle.Render("purchasing..."))
		} else {
			b.WriteString(" " + helpEntry("enter", "buy pack"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n " + helpEntry("o", "sign out") + "\n")

	return truncateToHeight(b.String(), m.height)
}
