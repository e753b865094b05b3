// Package session owns the signed-in identity and its bearer token. It is
// the only writer of the token and gates when the entity stores may be
// populated.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tgienger/taskdash/internal/models"
)

// Keys under which the session is persisted
const (
	TokenKey = "session_token"
	UserKey  = "session_user"
)

var (
	// ErrInvalidCredentials is returned by Login for an empty token or user id
	ErrInvalidCredentials = errors.New("session: token and user id are required")
	// ErrNotAuthenticated is returned by operations that need a signed-in user
	ErrNotAuthenticated = errors.New("session: not authenticated")
)

// Storage is the key-value persistence the session lives in
type Storage interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Event is a session state transition
type Event int

const (
	// EventResolved: a persisted session was found at startup
	EventResolved Event = iota
	// EventAnonymous: nothing was persisted at startup
	EventAnonymous
	// EventCorrupt: persisted data could not be parsed and was cleared
	EventCorrupt
	EventLoggedIn
	EventLoggedOut
	EventProfileUpdated
)

func (e Event) String() string {
	switch e {
	case EventResolved:
		return "resolved"
	case EventAnonymous:
		return "anonymous"
	case EventCorrupt:
		return "corrupt"
	case EventLoggedIn:
		return "logged_in"
	case EventLoggedOut:
		return "logged_out"
	case EventProfileUpdated:
		return "profile_updated"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Snapshot is a consistent read of the session state
type Snapshot struct {
	User            models.User
	Token           string
	IsAuthenticated bool
	Loading         bool
}

// ProfileUpdate carries the user fields to change; nil fields are kept
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Avatar *string
}

// Store holds the current session
type Store struct {
	storage Storage
	log     *logrus.Entry

	mu            sync.RWMutex
	user          *models.User
	token         string
	authenticated bool
	loading       bool
	resolved      bool
	listeners     []func(Event)
}

// New creates a session store that is loading until Resolve runs
func New(storage Storage, log *logrus.Entry) *Store {
	return &Store{
		storage: storage,
		log:     log.WithField("component", "session"),
		loading: true,
	}
}

// Subscribe registers fn to be called after every transition
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Resolve restores the persisted session. It runs once; later calls return
// the current state. Corrupt data is cleared and reported as anonymous
// state, not as an error.
func (s *Store) Resolve() (Snapshot, error) {
	const op = "session.Store.Resolve"
	log := s.log.WithField("operation", op)

	s.mu.Lock()
	if s.resolved {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	s.resolved = true

	event, err := s.resolveLocked(log)
	s.loading = false
	snap := s.snapshotLocked()
	listeners := s.listeners
	s.mu.Unlock()

	if err != nil {
		return snap, fmt.Errorf("%s: %w", op, err)
	}
	notify(listeners, event)
	return snap, nil
}

func (s *Store) resolveLocked(log *logrus.Entry) (Event, error) {
	s.clearLocked()

	token, err := s.storage.GetSetting(TokenKey)
	if err != nil {
		return EventAnonymous, err
	}
	raw, err := s.storage.GetSetting(UserKey)
	if err != nil {
		return EventAnonymous, err
	}
	if token == "" || raw == "" {
		log.Debug("no persisted session")
		return EventAnonymous, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		log.WithError(err).Warn("persisted session is corrupt, clearing")
		if err := s.erase(); err != nil {
			log.WithError(err).Error("clear corrupt session")
		}
		return EventCorrupt, nil
	}
	user.Role = models.ParseRole(string(user.Role))

	s.user = &user
	s.token = token
	s.authenticated = true
	log.WithField("user_id", user.ID).Info("session restored")
	return EventResolved, nil
}

// Login stores user and token and persists them
func (s *Store) Login(user models.User, token string) error {
	const op = "session.Store.Login"
	if token == "" || user.ID == "" {
		return ErrInvalidCredentials
	}
	user.Role = models.ParseRole(string(user.Role))

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	if err := s.storage.SetSetting(TokenKey, token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: persist token: %w", op, err)
	}
	if err := s.storage.SetSetting(UserKey, string(raw)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: persist user: %w", op, err)
	}
	s.user = &user
	s.token = token
	s.authenticated = true
	s.loading = false
	s.resolved = true
	listeners := s.listeners
	s.mu.Unlock()

	s.log.WithField("operation", op).WithField("user_id", user.ID).Info("logged in")
	notify(listeners, EventLoggedIn)
	return nil
}

// Logout clears the session and its persisted copy. The in-memory state is
// cleared even when persistence fails.
func (s *Store) Logout() error {
	const op = "session.Store.Logout"

	s.mu.Lock()
	s.clearLocked()
	s.loading = false
	s.resolved = true
	err := s.erase()
	listeners := s.listeners
	s.mu.Unlock()

	s.log.WithField("operation", op).Info("logged out")
	notify(listeners, EventLoggedOut)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile merges the set fields into the user and persists the record.
// Authentication state is not touched.
func (s *Store) UpdateProfile(u ProfileUpdate) (models.User, error) {
	const op = "session.Store.UpdateProfile"

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return models.User{}, ErrNotAuthenticated
	}
	user := *s.user
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Avatar != nil {
		user.Avatar = *u.Avatar
	}
	raw, err := json.Marshal(user)
	if err == nil {
		err = s.storage.SetSetting(UserKey, string(raw))
	}
	if err != nil {
		s.mu.Unlock()
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	s.user = &user
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, EventProfileUpdated)
	return user, nil
}

// Token returns the bearer token, "" when signed out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether a user and token are present
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Loading reports whether the startup resolution is still pending
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns the whole state at once
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Token:           s.token,
		IsAuthenticated: s.authenticated,
		Loading:         s.loading,
	}
	if s.user != nil {
		snap.User = *s.user
	}
	return snap
}

func (s *Store) clearLocked() {
	s.user = nil
	s.token = ""
	s.authenticated = false
}

func (s *Store) erase() error {
	return errors.Join(
		s.storage.DeleteSetting(TokenKey),
		s.storage.DeleteSetting(UserKey),
	)
}

func notify(listeners []func(Event), e Event) {
	for _, fn := range listeners {
		fn(e)
	}
}
