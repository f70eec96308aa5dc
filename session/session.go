// Package session holds the bearer token and permission set gating every
// other store's requests.
package session

import (
	"sync"

	"go.uber.org/zap"

	"salonova/notify"
	"salonova/utils"
)

// Store is the auth/session holder. Its Token method is read by the
// transport on every request, so login and logout take effect immediately
// for all stores.
type Store struct {
	mu          sync.RWMutex
	token       string
	userID      string
	email       string
	permissions map[string]struct{}

	notifier  notify.Notifier
	listeners []func()
}

func NewStore(notifier notify.Notifier) *Store {
	return &Store{notifier: notifier}
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken installs a freshly issued token and decodes its claims into the
// local permission set. A token the client cannot decode is still kept; the
// backend remains the authority on what it grants.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.userID = ""
	s.email = ""
	s.permissions = make(map[string]struct{})
	if claims, err := utils.DecodeClaims(token); err == nil {
		s.userID = claims.Subject
		s.email = claims.Email
		for _, code := range claims.Permissions {
			s.permissions[code] = struct{}{}
		}
	} else {
		utils.GetLogger().Warn("Could not decode token claims", zap.Error(err))
	}
	s.mu.Unlock()
	s.notifyChange()
}

// Logout clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	cleared := s.token != ""
	s.token = ""
	s.userID = ""
	s.email = ""
	s.permissions = nil
	s.mu.Unlock()
	if cleared {
		s.notifyChange()
	}
}

// Expire is the transport's 403 hook: logout plus a session-expired notice.
// Calling it while already logged out is a no-op, so overlapping rejected
// requests produce a single notification.
func (s *Store) Expire() {
	s.mu.Lock()
	active := s.token != ""
	s.token = ""
	s.userID = ""
	s.email = ""
	s.permissions = nil
	s.mu.Unlock()
	if !active {
		return
	}
	utils.GetLogger().Info("Session expired, logging out")
	if s.notifier != nil {
		s.notifier.Error("La sesión ha expirado, inicie sesión nuevamente")
	}
	s.notifyChange()
}

// Active reports whether a token is held.
func (s *Store) Active() bool {
	return s.Token() != ""
}

// UserID returns the subject of the current token.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Email returns the email claim of the current token.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// HasPermission reports whether the token carries the given permission code.
// Advisory only: the backend re-checks every operation.
func (s *Store) HasPermission(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.permissions[code]
	return ok
}

// OnChange registers a callback fired after every session change.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notifyChange() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}
