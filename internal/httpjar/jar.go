// Package httpjar is a cookie jar that persists the marketplace
// session cookie to disk, so a sign-in survives restarts.
package httpjar

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// storedCookie is the on-disk shape of a single cookie.
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
	Secure  bool      `json:"secure,omitempty"`
	HTTP    bool      `json:"http_only,omitempty"`
}

// Jar wraps net/http/cookiejar and mirrors cookies set for the
// marketplace origin into a JSON file with 0600 permissions.
type Jar struct {
	mu     sync.Mutex
	inner  *cookiejar.Jar
	path   string
	origin *url.URL
	saved  map[string]storedCookie // keyed by cookie name
}

// Open loads any previously saved cookies for baseURL from path. A
// missing or unreadable file starts an empty jar; a corrupt file is
// discarded rather than failing startup.
func Open(path, baseURL string) (*Jar, error) {
	origin, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpjar.Open: parse base URL: %w", err)
	}
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("httpjar.Open: %w", err)
	}
	j := &Jar{inner: inner, path: path, origin: origin, saved: map[string]storedCookie{}}
	j.load()
	return j, nil
}

func (j *Jar) load() {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return
	}
	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return
	}
	now := time.Now()
	var cookies []*http.Cookie
	for _, s := range stored {
		if !s.Expires.IsZero() && s.Expires.Before(now) {
			continue
		}
		j.saved[s.Name] = s
		cookies = append(cookies, &http.Cookie{
			Name:     s.Name,
			Value:    s.Value,
			Path:     s.Path,
			Domain:   s.Domain,
			Expires:  s.Expires,
			Secure:   s.Secure,
			HttpOnly: s.HTTP,
		})
	}
	if len(cookies) > 0 {
		j.inner.SetCookies(j.origin, cookies)
	}
}

// SetCookies implements http.CookieJar. Cookies for the marketplace
// host are also written through to disk; a write failure only loses
// persistence, never the in-memory session.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)
	if u.Hostname() != j.origin.Hostname() {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(j.saved, c.Name)
			continue
		}
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
		}
		j.saved[c.Name] = storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: expires,
			Secure:  c.Secure,
			HTTP:    c.HttpOnly,
		}
	}
	j.flush()
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Clear drops every saved cookie, in memory and on disk.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.saved = map[string]storedCookie{}
	os.Remove(j.path) //nolint:errcheck // file may not exist
}

func (j *Jar) flush() {
	stored := make([]storedCookie, 0, len(j.saved))
	for _, s := range j.saved {
		stored = append(stored, s)
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(j.path, data, 0o600) //nolint:errcheck // persistence is best-effort
}
