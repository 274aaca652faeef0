package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/davemunger/playdeck/pkg/domain"
)

// Client is the playdeck marketplace API client. The session is an
// opaque cookie held in the jar; every request carries it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client. A nil jar gets an in-memory one, so
// the session lives exactly as long as the process.
func New(baseURL string, jar http.CookieJar) *Client {
	if jar == nil {
		jar, _ = cookiejar.New(nil) //nolint:errcheck // cookiejar.New never fails with nil options
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Auth ---

// loginRequest is the payload for the login endpoint.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerRequest is the payload for the register endpoint.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CheckSession probes the current session. A nil user with a nil error
// means the server recognizes no session: anonymous, not a failure.
func (c *Client) CheckSession(ctx context.Context) (*domain.User, error) {
	var u domain.User
	ok, err := c.getUser(ctx, "/api/auth/session", &u)
	if err != nil {
		return nil, fmt.Errorf("client.CheckSession: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Login exchanges credentials for a session cookie and the identity payload.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var u domain.User
	ok, err := c.postUser(ctx, "/api/auth/login", loginRequest{Username: username, Password: password}, &u)
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("client.Login: %w", &APIError{Message: "login succeeded without a user payload"})
	}
	return &u, nil
}

// Register creates an account and returns the freshly authenticated identity.
func (c *Client) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	var u domain.User
	ok, err := c.postUser(ctx, "/api/auth/register", registerRequest{Username: username, Email: email, Password: password}, &u)
	if err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("client.Register: %w", &APIError{Message: "registration succeeded without a user payload"})
	}
	return &u, nil
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// --- Catalog ---

// ListGames fetches the catalog, optionally filtered by genre on the server.
func (c *Client) ListGames(ctx context.Context, genre string) ([]domain.Game, error) {
	path := "/api/games"
	if genre != "" {
		params := url.Values{}
		params.Set("genre", genre)
		path += "?" + params.Encode()
	}
	var games []domain.Game
	if err := c.get(ctx, path, &games); err != nil {
		return nil, fmt.Errorf("client.ListGames: %w", err)
	}
	return games, nil
}

// GetGame fetches a single game by identifier.
func (c *Client) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	var g domain.Game
	if err := c.get(ctx, "/api/games/"+url.PathEscape(id), &g); err != nil {
		return nil, fmt.Errorf("client.GetGame: %w", err)
	}
	return &g, nil
}

// ListGenres fetches the genre list for the catalog filter bar.
func (c *Client) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	var genres []domain.Genre
	if err := c.get(ctx, "/api/genres", &genres); err != nil {
		return nil, fmt.Errorf("client.ListGenres: %w", err)
	}
	return genres, nil
}

// ToggleWishlist flips the wishlist state of a game and returns the new state.
func (c *Client) ToggleWishlist(ctx context.Context, gameID string) (bool, error) {
	var result struct {
		Wishlisted bool `json:"wishlisted"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/api/games/"+url.PathEscape(gameID)+"/wishlist", nil, &result); err != nil {
		return false, fmt.Errorf("client.ToggleWishlist: %w", err)
	}
	return result.Wishlisted, nil
}

// --- Purchases ---

// PurchaseGame buys a game with tokens. The returned receipt carries a
// NewBalance that is advisory only; the session endpoint is the source
// of truth for balance.
func (c *Client) PurchaseGame(ctx context.Context, gameID string) (*domain.Purchase, error) {
	var p domain.Purchase
	if err := c.doRequest(ctx, http.MethodPost, "/api/games/"+url.PathEscape(gameID)+"/purchase", nil, &p); err != nil {
		return nil, fmt.Errorf("client.PurchaseGame: %w", err)
	}
	return &p, nil
}

// ListTokenPacks fetches the purchasable token bundles.
func (c *Client) ListTokenPacks(ctx context.Context) ([]domain.TokenPack, error) {
	var packs []domain.TokenPack
	if err := c.get(ctx, "/api/tokens/packs", &packs); err != nil {
		return nil, fmt.Errorf("client.ListTokenPacks: %w", err)
	}
	return packs, nil
}

// PurchaseTokenPack buys a token pack.
func (c *Client) PurchaseTokenPack(ctx context.Context, packID string) (*domain.Purchase, error) {
	var p domain.Purchase
	if err := c.doRequest(ctx, http.MethodPost, "/api/tokens/packs/"+url.PathEscape(packID)+"/purchase", nil, &p); err != nil {
		return nil, fmt.Errorf("client.PurchaseTokenPack: %w", err)
	}
	return &p, nil
}

// --- Library ---

// ListLibrary fetches the authenticated user's owned games.
func (c *Client) ListLibrary(ctx context.Context) ([]domain.LibraryEntry, error) {
	var entries []domain.LibraryEntry
	if err := c.get(ctx, "/api/library", &entries); err != nil {
		return nil, fmt.Errorf("client.ListLibrary: %w", err)
	}
	return entries, nil
}

// --- Transport ---

// envelope is the `{success, data, message}` wrapper every endpoint
// uses, with auth endpoints substituting `user` for `data`.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Message string          `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

// getUser issues a GET against an auth endpoint. The boolean reports
// whether the response actually carried a user payload.
func (c *Client) getUser(ctx context.Context, path string, u *domain.User) (bool, error) {
	return c.doUser(ctx, http.MethodGet, path, nil, u)
}

func (c *Client) postUser(ctx context.Context, path string, body any, u *domain.User) (bool, error) {
	return c.doUser(ctx, http.MethodPost, path, body, u)
}

func (c *Client) doUser(ctx context.Context, method, path string, body any, u *domain.User) (bool, error) {
	raw, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return false, err
	}
	env, err := parseEnvelope(raw)
	if err != nil {
		return false, err
	}
	payload := env.User
	if payload == nil {
		payload = env.Data
	}
	if payload == nil || string(payload) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(payload, u); err != nil {
		return false, fmt.Errorf("decode user payload: %w", err)
	}
	return true, nil
}

// doRequest issues a request and decodes the payload into out. It
// tolerates both the standard envelope and bare collection responses.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	raw, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		// Still surface `success: false` on fire-and-forget calls.
		if _, err := parseEnvelope(raw); err != nil {
			return err
		}
		return nil
	}

	// Collection endpoints sometimes return a bare array.
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	env, err := parseEnvelope(raw)
	if err != nil {
		return err
	}
	payload := env.Data
	if payload == nil {
		payload = env.User
	}
	if payload == nil || string(payload) == "null" {
		// Well-formed success with no data; leave out at its zero value.
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseEnvelope decodes the standard wrapper and turns an explicit
// `success: false` into an APIError carrying the server's message.
func parseEnvelope(raw []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Success != nil && !*env.Success {
		return nil, &APIError{Message: env.Message}
	}
	return &env, nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB cap
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var env envelope
		if json.Unmarshal(respBody, &env) == nil && env.Message != "" {
			return nil, &HTTPError{StatusCode: resp.StatusCode, Message: env.Message}
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return respBody, nil
}
