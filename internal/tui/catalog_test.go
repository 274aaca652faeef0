package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davemunger/playdeck/internal/browse"
	"github.com/davemunger/playdeck/internal/notify"
	"github.com/davemunger/playdeck/pkg/domain"
)

func testCatalog(t *testing.T, user *domain.User) catalogModel {
	t.Helper()
	c := fakeMarketplace(t, user)
	m := newCatalogModel(c, sessionStore(t, user), notify.New(nil))
	m.width = 80
	m.height = 30
	m.loading = false
	return m
}

func sampleGames() []domain.Game {
	return []domain.Game{
		{ID: "g1", Name: "Star Drifter", Description: "space trading", Price: 30, Genre: "strategy"},
		{ID: "g2", Name: "Abyss Crawl", Description: "roguelike dungeon", Price: 15, Genre: "rpg"},
		{ID: "g3", Name: "Pixel Farm", Description: "cozy farming", Price: 0, Genre: "casual"},
	}
}

func TestCatalogListRendersGames(t *testing.T) {
	m := testCatalog(t, nil)
	m.games = sampleGames()

	out := m.View()
	for _, name := range []string{"Star Drifter", "Abyss Crawl", "Pixel Farm"} {
		if !strings.Contains(out, name) {
			t.Errorf("view missing game %q", name)
		}
	}
	if !strings.Contains(out, "free") {
		t.Error("zero-price game should render as free")
	}
}

func TestCatalogSearchFilters(t *testing.T) {
	m := testCatalog(t, nil)
	m.games = sampleGames()

	m, _ = m.Update(keyMsg("/"))
	if !m.editing {
		t.Fatal("expected editing after '/'")
	}
	for _, r := range "dungeon" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	visible, _ := m.derived()
	if len(visible) != 1 || visible[0].ID != "g2" {
		t.Fatalf("expected only g2 to match %q, got %+v", m.search, visible)
	}

	// Esc clears the filter entirely.
	m, _ = m.Update(keyMsg("/"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if visible, _ := m.derived(); len(visible) != 3 {
		t.Errorf("expected full list after esc, got %d", len(visible))
	}
}

func TestCatalogSortCycle(t *testing.T) {
	m := testCatalog(t, nil)
	m.games = sampleGames()

	m, _ = m.Update(keyMsg("s"))
	if m.sortKey != browse.SortPriceAsc {
		t.Fatalf("expected price-asc after one 's', got %v", m.sortKey)
	}
	visible, _ := m.derived()
	if visible[0].ID != "g3" {
		t.Errorf("cheapest game should lead price-asc, got %s", visible[0].ID)
	}

	m, _ = m.Update(keyMsg("s"))
	visible, _ = m.derived()
	if m.sortKey != browse.SortPriceDesc || visible[0].ID != "g1" {
		t.Errorf("expected price-desc with g1 first, got %v / %s", m.sortKey, visible[0].ID)
	}
}

func TestCatalogPagination(t *testing.T) {
	m := testCatalog(t, nil)
	for i := 0; i < 25; i++ {
		m.games = append(m.games, domain.Game{ID: string(rune('a' + i)), Name: "Game", Price: float64(i)})
	}

	visible, pages := m.derived()
	if pages != 3 || len(visible) != pageSize {
		t.Fatalf("expected 3 pages of %d, got %d pages / %d visible", pageSize, pages, len(visible))
	}

	m, _ = m.Update(keyMsg("]"))
	if m.pageIdx != 1 || m.cursor != 0 {
		t.Errorf("expected page 1 cursor 0, got page %d cursor %d", m.pageIdx, m.cursor)
	}
	m, _ = m.Update(keyMsg("]"))
	m, _ = m.Update(keyMsg("]")) // clamped at last page
	if m.pageIdx != 2 {
		t.Errorf("expected page flip to clamp at 2, got %d", m.pageIdx)
	}
	m, _ = m.Update(keyMsg("["))
	if m.pageIdx != 1 {
		t.Errorf("expected page 1 after '[', got %d", m.pageIdx)
	}
}

func TestCatalogEnterOpensDetail(t *testing.T) {
	m := testCatalog(t, nil)
	m.games = sampleGames()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detail {
		t.Fatal("expected detail mode after enter")
	}
	if cmd == nil {
		t.Fatal("expected a detail load command")
	}

	g := sampleGames()[0]
	m, _ = m.Update(gameLoadedMsg{game: &g})
	out := m.View()
	if !strings.Contains(out, "Star Drifter") || !strings.Contains(out, "space trading") {
		t.Error("detail view missing game content")
	}
}

func TestCatalogGenreCycleRefetches(t *testing.T) {
	m := testCatalog(t, nil)
	m.games = sampleGames()
	m.genres = []domain.Genre{{Name: "rpg"}, {Name: "strategy"}}

	m, cmd := m.Update(keyMsg("g"))
	if m.genreFilter() != "rpg" || cmd == nil {
		t.Fatalf("expected rpg filter with a reload command, got %q", m.genreFilter())
	}
	m, _ = m.Update(keyMsg("g"))
	if m.genreFilter() != "strategy" {
		t.Fatalf("expected strategy filter, got %q", m.genreFilter())
	}
	m, _ = m.Update(keyMsg("g"))
	if m.genreFilter() != "" {
		t.Errorf("expected cycle back to all genres, got %q", m.genreFilter())
	}
}

func TestBuyGuardsRunBeforeAnyRequest(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		m := testCatalog(t, nil)
		g := domain.Game{ID: "g1", Name: "Star Drifter", Price: 30}
		m.detail = true
		m.detailGame = &g

		m, cmd := m.Update(keyMsg("b"))
		if cmd != nil {
			t.Fatal("anonymous purchase must not issue a request")
		}
		items := m.notices.Items()
		if len(items) != 1 || items[0].Severity != domain.SeverityWarning {
			t.Fatalf("expected one warning, got %+v", items)
		}
		if !strings.Contains(items[0].Message, "sign in") {
			t.Errorf("warning should point at sign-in, got %q", items[0].Message)
		}
	})

	t.Run("insufficient balance", func(t *testing.T) {
		m := testCatalog(t, testUser(5))
		g := domain.Game{ID: "g1", Name: "Star Drifter", Price: 30}
		m.detail = true
		m.detailGame = &g

		m, cmd := m.Update(keyMsg("b"))
		if cmd != nil {
			t.Fatal("underfunded purchase must not issue a request")
		}
		items := m.notices.Items()
		if len(items) != 1 || items[0].Severity != domain.SeverityWarning {
			t.Fatalf("expected one warning, got %+v", items)
		}
		if !strings.Contains(items[0].Message, "not enough tokens") {
			t.Errorf("warning should mention the balance, got %q", items[0].Message)
		}
	})

	t.Run("already owned", func(t *testing.T) {
		m := testCatalog(t, testUser(100))
		g := domain.Game{ID: "g1", Name: "Star Drifter", Price: 30, Owned: true}
		m.detail = true
		m.detailGame = &g

		m, cmd := m.Update(keyMsg("b"))
		if cmd != nil {
			t.Fatal("owned game must not be purchasable again")
		}
		if items := m.notices.Items(); len(items) != 1 || items[0].Severity != domain.SeverityInfo {
			t.Fatalf("expected one info notice, got %+v", items)
		}
	})

	t.Run("funded", func(t *testing.T) {
		m := testCatalog(t, testUser(100))
		g := domain.Game{ID: "g1", Name: "Star Drifter", Price: 30}
		m.detail = true
		m.detailGame = &g

		m, cmd := m.Update(keyMsg("b"))
		if cmd == nil {
			t.Fatal("funded purchase should issue the request")
		}
		if !m.buying {
			t.Error("expected buying state while the request runs")
		}
	})
}

func TestPurchaseDoneAppliesReceipt(t *testing.T) {
	m := testCatalog(t, testUser(100))
	m.games = sampleGames()
	g := m.games[0]
	m.detail = true
	m.detailGame = &g
	m.buying = true

	receipt := &domain.Purchase{OrderID: "o1", GameID: "g1", NewBalance: 70, CreatedAt: time.Now()}
	m, cmd := m.Update(purchaseDoneMsg{gameID: "g1", receipt: receipt})

	if m.buying {
		t.Error("buying flag should clear")
	}
	if !m.detailGame.Owned || !m.games[0].Owned {
		t.Error("purchased game should be marked owned everywhere")
	}
	if got := m.store.Identity().TokenBalance; got != 70 {
		t.Errorf("balance = %v, want optimistic 70", got)
	}
	if cmd == nil {
		t.Error("expected a reconciliation command after the optimistic patch")
	}
	items := m.notices.Items()
	if len(items) != 1 || items[0].Severity != domain.SeveritySuccess {
		t.Errorf("expected a success notification, got %+v", items)
	}
}

func TestWishlistToggle(t *testing.T) {
	t.Run("anonymous warns", func(t *testing.T) {
		m := testCatalog(t, nil)
		m.games = sampleGames()

		m, cmd := m.Update(keyMsg("w"))
		if cmd != nil {
			t.Fatal("anonymous wishlist must not issue a request")
		}
		if items := m.notices.Items(); len(items) != 1 || items[0].Severity != domain.SeverityWarning {
			t.Fatalf("expected one warning, got %+v", items)
		}
	})

	t.Run("confirmation lands in every copy", func(t *testing.T) {
		m := testCatalog(t, testUser(10))
		m.games = sampleGames()
		g := m.games[1]
		m.detail = true
		m.detailGame = &g

		m, _ = m.Update(wishlistToggledMsg{gameID: "g2", wishlisted: true})
		if !m.games[1].Wishlisted || !m.detailGame.Wishlisted {
			t.Error("wishlist state should apply to list and detail copies")
		}
		if items := m.notices.Items(); len(items) != 1 || items[0].Severity != domain.SeveritySuccess {
			t.Errorf("expected a success notification, got %+v", items)
		}
	})
}

func TestCatalogLoadErrorShowsRetry(t *testing.T) {
	m := testCatalog(t, nil)
	m, _ = m.Update(catalogLoadedMsg{err: errStub("boom")})
	out := m.View()
	if !strings.Contains(out, "retry") {
		t.Error("error state should offer a retry")
	}
}

type errStub string

func (e errStub) Error() string { return string(e) }
