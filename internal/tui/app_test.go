package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davemunger/playdeck/internal/notify"
	"github.com/davemunger/playdeck/internal/session"
	"github.com/davemunger/playdeck/pkg/client"
	"github.com/davemunger/playdeck/pkg/domain"
)

// fakeMarketplace serves just enough of the API for TUI tests: a
// session endpoint with a configurable user and empty collections
// everywhere else.
func fakeMarketplace(t *testing.T, user *domain.User) *client.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "user": user}) //nolint:errcheck
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":[]}`) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return client.New(srv.URL, nil)
}

func newTestApp(t *testing.T) App {
	t.Helper()
	a := NewApp(fakeMarketplace(t, nil), sessionStore(t, nil), notify.New(nil))
	a.width = 80
	a.height = 30
	return a
}

// sessionStore returns a store that has already probed: anonymous when
// user is nil, authenticated otherwise.
func sessionStore(t *testing.T, user *domain.User) *session.Store {
	t.Helper()
	s := session.NewStore(fakeMarketplace(t, user), nil)
	s.ProbeSession(context.Background())
	return s
}

func testUser(balance float64) *domain.User {
	return &domain.User{ID: "u1", Username: "pixel", Email: "pixel@example.com", TokenBalance: balance}
}

func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"1", viewFront},
		{"2", viewCatalog},
		{"3", viewLibrary},
		{"4", viewAccount},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			app := newTestApp(t)
			app.view = viewCatalog
			if tc.wantView == viewCatalog {
				app.view = viewFront
			}
			model, _ := app.Update(keyMsg(tc.key))
			a := model.(App)
			if a.view != tc.wantView {
				t.Errorf("after key %q: expected view=%d, got %d", tc.key, tc.wantView, a.view)
			}
		})
	}
}

func TestAppGlobalQuitOnQ(t *testing.T) {
	a := newTestApp(t)
	_, cmd := a.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
}

func TestAppNoQuitWhileSearching(t *testing.T) {
	a := newTestApp(t)
	a.view = viewCatalog
	a.catalog.editing = true

	model, _ := a.Update(keyMsg("q"))
	got := model.(App)
	if got.catalog.search != "q" {
		t.Errorf("expected 'q' appended to search while editing, got %q", got.catalog.search)
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a := newTestApp(t)

	model, _ := a.Update(keyMsg("h"))
	a = model.(App)
	if !a.helpOpen {
		t.Fatal("expected helpOpen=true after 'h'")
	}
	if !strings.Contains(a.View(), "playdeck.games") {
		t.Error("help overlay should list site links")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.helpOpen {
		t.Error("expected helpOpen=false after Esc")
	}
}

func TestAppShowGameRoutesToCatalogDetail(t *testing.T) {
	a := newTestApp(t)
	a.view = viewFront

	model, cmd := a.Update(showGameMsg{id: "g1"})
	got := model.(App)
	if got.view != viewCatalog {
		t.Fatalf("expected viewCatalog after showGameMsg, got %d", got.view)
	}
	if !got.catalog.detail {
		t.Error("expected catalog to be in detail mode")
	}
	if cmd == nil {
		t.Error("expected a load command for the game detail")
	}
}

func TestAppDismissOldestNotification(t *testing.T) {
	a := newTestApp(t)
	first := a.notices.Enqueue("first", domain.SeverityInfo, 0)
	a.notices.Enqueue("second", domain.SeverityInfo, 0)

	model, _ := a.Update(keyMsg("x"))
	a = model.(App)

	items := a.notices.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 notification left, got %d", len(items))
	}
	if items[0].ID == first {
		t.Error("expected the oldest notification to be dismissed")
	}
}

func TestAppDismissWithEmptyTrayIsNoop(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(keyMsg("x"))
	if got := model.(App); got.notices.Len() != 0 {
		t.Errorf("expected empty tray, got %d items", got.notices.Len())
	}
}

func TestAppViewShowsNotificationTray(t *testing.T) {
	a := newTestApp(t)
	a.notices.Enqueue("purchase complete", domain.SeveritySuccess, 0)

	out := a.View()
	if !strings.Contains(out, "purchase complete") {
		t.Error("tray message missing from view")
	}
	if !strings.Contains(out, "dismiss") {
		t.Error("dismiss hint missing from view")
	}
}

func TestAppHeaderIdentity(t *testing.T) {
	t.Run("guest", func(t *testing.T) {
		a := newTestApp(t)
		if !strings.Contains(a.View(), "browsing as guest") {
			t.Error("anonymous header should invite sign-in")
		}
	})

	t.Run("signed in", func(t *testing.T) {
		a := newTestApp(t)
		a.store = sessionStore(t, testUser(42))
		out := a.View()
		if !strings.Contains(out, "@pixel") {
			t.Error("header should show the username")
		}
		if !strings.Contains(out, "42") {
			t.Error("header should show the token balance")
		}
	})
}

func TestAppEscLeavesAccountForm(t *testing.T) {
	a := newTestApp(t)
	a.view = viewAccount

	// The anonymous account form is always editing, so Esc is the
	// only way back out.
	if !a.isEditing() {
		t.Fatal("anonymous account page should be editing")
	}
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := model.(App); got.view != viewFront {
		t.Errorf("expected viewFront after Esc, got %d", got.view)
	}
}

func TestAppSessionChangeReloadsLibrary(t *testing.T) {
	a := newTestApp(t)
	a.store = sessionStore(t, testUser(10))
	a.library = newLibraryModel(a.client, a.store)
	a.library.entries = []domain.LibraryEntry{{Game: domain.Game{ID: "stale"}}}

	model, cmd := a.Update(sessionChangedMsg{})
	got := model.(App)
	if len(got.library.entries) != 0 {
		t.Error("stale library entries should be dropped on session change")
	}
	if cmd == nil {
		t.Error("expected reload commands after session change")
	}
}
