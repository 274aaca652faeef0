package httpjar

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const base = "https://api.playdeck.games"

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return u
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie")

	j, err := Open(path, base)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	origin := mustURL(t, base)
	j.SetCookies(origin, []*http.Cookie{{
		Name:   "pd_session",
		Value:  "abc123",
		Path:   "/",
		MaxAge: 3600,
	}})

	// A fresh jar over the same file sees the cookie.
	j2, err := Open(path, base)
	if err != nil {
		t.Fatalf("Open again: %v", err)
	}
	got := j2.Cookies(origin)
	if len(got) != 1 || got[0].Name != "pd_session" || got[0].Value != "abc123" {
		t.Fatalf("restored cookies = %+v, want pd_session=abc123", got)
	}
}

func TestFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie")
	j, err := Open(path, base)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	j.SetCookies(mustURL(t, base), []*http.Cookie{{Name: "pd_session", Value: "v", MaxAge: 60}})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("cookie file mode = %o, want 600", perm)
	}
}

func TestExpiredCookieNotRestored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie")
	j, err := Open(path, base)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	origin := mustURL(t, base)
	j.SetCookies(origin, []*http.Cookie{{
		Name:    "pd_session",
		Value:   "stale",
		Expires: time.Now().Add(10 * time.Millisecond),
	}})

	time.Sleep(20 * time.Millisecond)
	j2, err := Open(path, base)
	if err != nil {
		t.Fatalf("Open again: %v", err)
	}
	if got := j2.Cookies(origin); len(got) != 0 {
		t.Errorf("expired cookie survived restart: %+v", got)
	}
}

func TestForeignHostNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie")
	j, err := Open(path, base)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	j.SetCookies(mustURL(t, "https://other.example.com"), []*http.Cookie{{Name: "tracker", Value: "x", MaxAge: 60}})

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("foreign-host cookie was written to disk")
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie")
	j, err := Open(path, base)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	j.SetCookies(mustURL(t, base), []*http.Cookie{{Name: "pd_session", Value: "v", MaxAge: 60}})
	j.Clear()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Clear left the cookie file behind")
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	j, err := Open(path, base)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := j.Cookies(mustURL(t, base)); len(got) != 0 {
		t.Errorf("corrupt file produced cookies: %+v", got)
	}
}
