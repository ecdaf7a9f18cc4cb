package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oleastore/storefront/internal/api"
)

// Durable keys, named after the original client's storage schema.
const (
	keyIsLoggedIn   = "isLoggedIn"
	keyUser         = "user"
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
)

// Navigation targets the store drives the front end to.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

// Navigator is the store's view of the front end's router.
type Navigator interface {
	Navigate(route string)
}

// Store is the single source of truth for who is logged in. It is
// constructed once at startup and passed by reference; no package globals.
type Store struct {
	mu  sync.RWMutex
	ks  *Keystore
	nav Navigator
	log *slog.Logger

	loggedIn bool
	user     *api.User
	access   string
	refresh  string

	onLogout []func()
}

// NewStore rehydrates session state from the keystore before returning, so
// a restarted process never observes a logged-out flash for a valid session.
func NewStore(ks *Keystore, nav Navigator, log *slog.Logger) (*Store, error) {
	s := &Store{ks: ks, nav: nav, log: log}
	if err := s.rehydrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) rehydrate() error {
	flag, ok, err := s.ks.Get(keyIsLoggedIn)
	if err != nil {
		return fmt.Errorf("rehydrate session: %w", err)
	}
	if !ok || flag != "true" {
		return nil
	}

	rawUser, ok, err := s.ks.Get(keyUser)
	if err != nil || !ok {
		return err
	}
	access, _, err := s.ks.Get(keyAccessToken)
	if err != nil {
		return err
	}

	var u api.User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		s.log.Warn("session_rehydrate_failed", "reason", "corrupt_user_json", "error", err)
		return s.ks.Delete(keyIsLoggedIn, keyUser, keyAccessToken, keyRefreshToken)
	}
	if access == "" {
		// Logged in iff both user and a non-empty access token survive.
		return nil
	}

	refresh, _, err := s.ks.Get(keyRefreshToken)
	if err != nil {
		return err
	}

	s.loggedIn = true
	s.user = &u
	s.access = access
	s.refresh = refresh
	return nil
}

// OnLogout registers a hook run whenever the session is torn down. The
// cart/wishlist store uses it to reset its local counters.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.mu.Unlock()
}

// Login records a successful authentication. The token is trusted as issued;
// no client-side validation of its structure is performed.
func (s *Store) Login(user api.User, access, refresh string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	s.loggedIn = true
	s.user = &user
	s.access = access
	s.refresh = refresh
	s.mu.Unlock()

	if err := s.ks.Set(keyIsLoggedIn, "true"); err != nil {
		return err
	}
	if err := s.ks.Set(keyUser, string(raw)); err != nil {
		return err
	}
	if err := s.ks.Set(keyAccessToken, access); err != nil {
		return err
	}
	if err := s.ks.Set(keyRefreshToken, refresh); err != nil {
		return err
	}

	s.log.Info("login_success", "user_id", user.ID, "role", user.Role)
	return nil
}

// Logout clears the session and returns the user to the home view.
func (s *Store) Logout() {
	s.clear()
	s.log.Info("logout")
	if s.nav != nil {
		s.nav.Navigate(RouteHome)
	}
}

func (s *Store) clear() {
	s.mu.Lock()
	s.loggedIn = false
	s.user = nil
	s.access = ""
	s.refresh = ""
	hooks := s.onLogout
	s.mu.Unlock()

	if err := s.ks.Delete(keyIsLoggedIn, keyUser, keyAccessToken, keyRefreshToken); err != nil {
		s.log.Error("session_clear_failed", "error", err)
	}
	for _, fn := range hooks {
		fn()
	}
}

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// User returns a copy of the logged-in user, or nil.
func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAdmin is always derived from the user's role, never stored separately.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == "admin"
}

// AccessToken implements api.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken implements api.TokenSource.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// SetAccessToken stores a freshly refreshed access token.
func (s *Store) SetAccessToken(token string) error {
	s.mu.Lock()
	s.access = token
	s.mu.Unlock()
	return s.ks.Set(keyAccessToken, token)
}

// Invalidate tears the session down after a failed token refresh and sends
// the user back to sign-in.
func (s *Store) Invalidate() {
	s.clear()
	s.log.Warn("session_invalidated", "reason", "refresh_failed")
	if s.nav != nil {
		s.nav.Navigate(RouteLogin)
	}
}
