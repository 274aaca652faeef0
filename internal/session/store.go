// Package session holds the single source of truth for who is using
// the application. It is the only component permitted to call the
// authentication endpoints; pages receive the store by injection and
// read immutable snapshots.
package session

import (
	"context"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/davemunger/playdeck/pkg/client"
	"github.com/davemunger/playdeck/pkg/domain"
)

// State is the store's lifecycle position.
type State int

const (
	// StateProbing is the transient boot state while the initial
	// session probe is in flight.
	StateProbing State = iota
	// StateAnonymous means no identity; a valid state, not an error.
	StateAnonymous
	// StateAuthenticated means identity mirrors the last successful
	// server response.
	StateAuthenticated
)

// Fixed local-validation messages. These are returned before any
// network call is made.
const (
	loginFieldsRequired    = "username and password are required"
	registerFieldsRequired = "username, email and password are required"
)

// balanceEpsilon is the tolerance for optimistic balance drift. When
// the server's balance differs from the locally patched value by more
// than this, the server's value wins.
const balanceEpsilon = 0.01

// Result is the outcome of a login or register attempt. Failures are
// values, not errors: the caller renders Message inline and moves on.
type Result struct {
	OK      bool
	Message string
}

// Store holds the current identity (or its absence). Methods that hit
// the network block and are meant to run inside tea commands; the UI
// goroutine reads snapshots between events. Concurrent refreshes are
// last-writer-wins, which is acceptable because every write is a
// wholesale replacement of the same logical resource.
type Store struct {
	client *client.Client
	log    *zap.Logger

	mu       sync.Mutex
	state    State
	identity *domain.User
}

// NewStore creates a store in the probing state. A nil logger is
// replaced by a no-op one.
func NewStore(c *client.Client, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		client: c,
		log:    log,
		state:  StateProbing,
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns a copy of the current identity, or nil when
// anonymous or still probing.
func (s *Store) Identity() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	u := *s.identity
	return &u
}

// Authenticated reports whether an identity is present.
func (s *Store) Authenticated() bool {
	return s.Identity() != nil
}

// setIdentity replaces the identity wholesale and derives the state.
func (s *Store) setIdentity(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = u
	if u != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
}

// ProbeSession runs the startup session check. It never fails outward:
// a missing session, a transport error, or a parse error all collapse
// to anonymous, because an anonymous visitor is a valid state.
func (s *Store) ProbeSession(ctx context.Context) {
	u, err := s.client.CheckSession(ctx)
	if err != nil {
		s.log.Warn("session probe failed", zap.Error(err))
		s.setIdentity(nil)
		return
	}
	s.setIdentity(u)
}

// Login authenticates with the backend. Empty fields fail locally with
// a fixed message and no network call. On success the identity is
// replaced with the server payload exactly; on failure the result
// carries the server's message when present, else a generic
// connectivity message. There is no retry.
func (s *Store) Login(ctx context.Context, username, password string) Result {
	if strings.TrimSpace(username) == "" || password == "" {
		return Result{Message: loginFieldsRequired}
	}
	u, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.log.Info("login rejected", zap.String("username", username), zap.Error(err))
		return Result{Message: client.UserMessage(err)}
	}
	s.setIdentity(u)
	return Result{OK: true}
}

// Register creates an account. Same contract shape as Login, with all
// three fields required locally before any network call.
func (s *Store) Register(ctx context.Context, username, email, password string) Result {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return Result{Message: registerFieldsRequired}
	}
	u, err := s.client.Register(ctx, username, email, password)
	if err != nil {
		s.log.Info("registration rejected", zap.String("username", username), zap.Error(err))
		return Result{Message: client.UserMessage(err)}
	}
	s.setIdentity(u)
	return Result{OK: true}
}

// Logout ends the session. The local identity is cleared no matter
// what the remote call does, so the UI can never get stuck looking
// authenticated after a user-initiated logout.
func (s *Store) Logout(ctx context.Context) {
	defer s.setIdentity(nil)
	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn("remote logout failed, clearing local session anyway", zap.Error(err))
	}
}

// PatchTokenBalance optimistically replaces the identity's token
// balance. It reports whether the patch applied; it does not when no
// session exists or the value is not a usable number. Callers follow
// up with ReconcileBalance, since the endpoint that reported the new
// balance is not the source of truth for it.
func (s *Store) PatchTokenBalance(newBalance float64) bool {
	if math.IsNaN(newBalance) || math.IsInf(newBalance, 0) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return false
	}
	s.identity.TokenBalance = newBalance
	return true
}

// ReconcileBalance is the deferred, authoritative half of the
// optimistic-update strategy: fetch the session endpoint and, when the
// server's balance differs from the local one by more than the
// epsilon, let the server's value win. Best-effort: a failed fetch
// keeps the optimistic value and is only logged.
func (s *Store) ReconcileBalance(ctx context.Context) {
	u, err := s.client.CheckSession(ctx)
	if err != nil {
		s.log.Warn("balance reconciliation failed", zap.Error(err))
		return
	}
	if u == nil {
		// Session evaporated server-side; mirror that.
		s.setIdentity(nil)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return
	}
	if math.Abs(u.TokenBalance-s.identity.TokenBalance) > balanceEpsilon {
		s.log.Debug("balance drift resolved in server's favor",
			zap.Float64("local", s.identity.TokenBalance),
			zap.Float64("server", u.TokenBalance))
		s.identity.TokenBalance = u.TokenBalance
	}
}

// RefreshFromServer unconditionally re-fetches session state and
// replaces the identity. Used after state-changing operations that
// affect identity but do not return the full payload. Any failure
// collapses to anonymous rather than leaving the state undefined.
func (s *Store) RefreshFromServer(ctx context.Context) {
	u, err := s.client.CheckSession(ctx)
	if err != nil {
		s.log.Warn("session refresh failed", zap.Error(err))
		s.setIdentity(nil)
		return
	}
	s.setIdentity(u)
}
