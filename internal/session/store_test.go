package session_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Pallinder/go-randomdata"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/session"
)

type memoryStorage struct {
	values map[string]string
	getErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{values: map[string]string{}}
}

func (m *memoryStorage) GetSetting(key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *memoryStorage) SetSetting(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memoryStorage) DeleteSetting(key string) error {
	delete(m.values, key)
	return nil
}

func nullLog() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

func randomUser() models.User {
	return models.User{
		ID:    randomdata.StringNumber(2, ""),
		Name:  randomdata.FullName(randomdata.RandomGender),
		Email: randomdata.Email(),
		Role:  models.RoleManager,
	}
}

func TestStore_StartsLoading(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	s := session.New(newMemoryStorage(), log)

	require.True(t, s.Loading())
	require.False(t, s.IsAuthenticated())
}

func TestResolve_Anonymous(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	s := session.New(newMemoryStorage(), log)

	var events []session.Event
	s.Subscribe(func(e session.Event) { events = append(events, e) })

	snap, err := s.Resolve()
	require.NoError(t, err)
	require.False(t, snap.Loading)
	require.False(t, snap.IsAuthenticated)
	require.Equal(t, []session.Event{session.EventAnonymous}, events)
}

func TestResolve_TokenWithoutUserIsAnonymous(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	storage := newMemoryStorage()
	storage.values[session.TokenKey] = "tok"
	s := session.New(storage, log)

	snap, err := s.Resolve()
	require.NoError(t, err)
	require.False(t, snap.IsAuthenticated)
	require.Empty(t, s.Token())
}

func TestResolve_CorruptUserIsClearedNotFatal(t *testing.T) {
	t.Parallel()
	log, hook := nullLog()
	storage := newMemoryStorage()
	storage.values[session.TokenKey] = "tok"
	storage.values[session.UserKey] = "{not json"
	s := session.New(storage, log)

	var events []session.Event
	s.Subscribe(func(e session.Event) { events = append(events, e) })

	snap, err := s.Resolve()
	require.NoError(t, err)
	require.False(t, snap.IsAuthenticated)
	require.False(t, snap.Loading)
	require.NotContains(t, storage.values, session.TokenKey)
	require.NotContains(t, storage.values, session.UserKey)
	require.Equal(t, []session.Event{session.EventCorrupt}, events)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestResolve_UserWithoutIDIsCorrupt(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	storage := newMemoryStorage()
	storage.values[session.TokenKey] = "tok"
	storage.values[session.UserKey] = `{"name":"nobody"}`
	s := session.New(storage, log)

	snap, err := s.Resolve()
	require.NoError(t, err)
	require.False(t, snap.IsAuthenticated)
	require.Empty(t, storage.values)
}

func TestResolve_StorageErrorIsReturned(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	storage := newMemoryStorage()
	storage.getErr = errors.New("disk on fire")
	s := session.New(storage, log)

	snap, err := s.Resolve()
	require.Error(t, err)
	require.False(t, snap.Loading)
	require.False(t, snap.IsAuthenticated)
}

func TestResolve_RunsOnce(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	storage := newMemoryStorage()
	s := session.New(storage, log)

	_, err := s.Resolve()
	require.NoError(t, err)

	storage.values[session.TokenKey] = "late"
	storage.values[session.UserKey] = `{"id":"1"}`
	snap, err := s.Resolve()
	require.NoError(t, err)
	require.False(t, snap.IsAuthenticated)
}

func TestLogin_PersistsAndReloadResolves(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	database, err := db.Open(filepath.Join(t.TempDir(), "taskdash.db"))
	require.NoError(t, err)
	defer database.Close()

	user := randomUser()
	first := session.New(database, log)
	_, err = first.Resolve()
	require.NoError(t, err)
	require.NoError(t, first.Login(user, "bearer-123"))
	require.True(t, first.IsAuthenticated())

	reloaded := session.New(database, log)
	snap, err := reloaded.Resolve()
	require.NoError(t, err)
	require.True(t, snap.IsAuthenticated)
	require.Equal(t, "bearer-123", snap.Token)
	require.Equal(t, user, snap.User)
}

func TestLogin_RejectsMissingFields(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	storage := newMemoryStorage()
	s := session.New(storage, log)

	require.ErrorIs(t, s.Login(models.User{ID: "1"}, ""), session.ErrInvalidCredentials)
	require.ErrorIs(t, s.Login(models.User{}, "tok"), session.ErrInvalidCredentials)
	require.Empty(t, storage.values)
	require.False(t, s.IsAuthenticated())
}

func TestLogout_ClearsEverything(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	storage := newMemoryStorage()
	s := session.New(storage, log)
	require.NoError(t, s.Login(randomUser(), "tok"))

	var events []session.Event
	s.Subscribe(func(e session.Event) { events = append(events, e) })

	require.NoError(t, s.Logout())
	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.Token())
	_, ok := s.User()
	require.False(t, ok)
	require.Empty(t, storage.values)
	require.Equal(t, []session.Event{session.EventLoggedOut}, events)
}

func TestUpdateProfile_MergesWithoutTouchingAuth(t *testing.T) {
	t.Parallel()
	log, _ := nullLog()
	storage := newMemoryStorage()
	s := session.New(storage, log)

	name := "New Name"
	_, err := s.UpdateProfile(session.ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, session.ErrNotAuthenticated)

	user := randomUser()
	require.NoError(t, s.Login(user, "tok"))

	updated, err := s.UpdateProfile(session.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, user.Email, updated.Email)
	require.Equal(t, user.ID, updated.ID)
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "tok", s.Token())
	require.Contains(t, storage.values[session.UserKey], name)
}

func TestEventString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "corrupt", session.EventCorrupt.String())
	require.Equal(t, "event(42)", session.Event(42).String())
}
