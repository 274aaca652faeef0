package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davemunger/playdeck/pkg/domain"
)

func testFront(t *testing.T) frontModel {
	t.Helper()
	m := newFrontModel(fakeMarketplace(t, nil))
	m.width = 80
	m.height = 30
	m.loading = false
	return m
}

func TestFrontFeaturedLeadTheList(t *testing.T) {
	m := testFront(t)
	now := time.Now()
	m.games = []domain.Game{
		{ID: "old", Name: "Old Release", ReleasedAt: now.Add(-48 * time.Hour)},
		{ID: "new", Name: "New Release", ReleasedAt: now},
		{ID: "feat", Name: "Featured Pick", Featured: true, ReleasedAt: now.Add(-240 * time.Hour)},
	}

	rows := m.rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].ID != "feat" {
		t.Errorf("featured game should lead, got %s", rows[0].ID)
	}
	if rows[1].ID != "new" || rows[2].ID != "old" {
		t.Errorf("rest should order by recency, got %s then %s", rows[1].ID, rows[2].ID)
	}
}

func TestFrontSearch(t *testing.T) {
	m := testFront(t)
	m.games = []domain.Game{
		{ID: "g1", Name: "Star Drifter"},
		{ID: "g2", Name: "Abyss Crawl"},
	}

	m, _ = m.Update(keyMsg("/"))
	for _, r := range "star" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	rows := m.rows()
	if len(rows) != 1 || rows[0].ID != "g1" {
		t.Fatalf("expected only g1 to match, got %+v", rows)
	}
}

func TestFrontEnterRequestsDetail(t *testing.T) {
	m := testFront(t)
	m.games = []domain.Game{{ID: "g1", Name: "Star Drifter"}}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command carrying showGameMsg")
	}
	msg, ok := cmd().(showGameMsg)
	if !ok || msg.id != "g1" {
		t.Errorf("expected showGameMsg for g1, got %#v", msg)
	}
}

func TestFrontErrorState(t *testing.T) {
	m := testFront(t)
	m, _ = m.Update(frontLoadedMsg{err: errStub("down")})

	out := m.View()
	if !strings.Contains(out, "couldn't load the storefront") {
		t.Error("error panel missing")
	}

	_, cmd := m.Update(keyMsg("r"))
	if cmd == nil {
		t.Error("expected a reload command on 'r'")
	}
}
