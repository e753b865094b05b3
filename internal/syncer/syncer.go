// Package syncer keeps the local stores in step with the remote API. Every
// write goes to the server first; only the record it confirms reaches the
// stores.
package syncer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tgienger/taskdash/internal/api"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/session"
	"github.com/tgienger/taskdash/internal/store"
)

// Remote is the part of the API the syncer drives
type Remote interface {
	Login(ctx context.Context, email, password string) (models.User, string, error)
	ListUsers(ctx context.Context, token string) ([]models.User, error)

	ListProjects(ctx context.Context, token string) ([]models.Project, error)
	CreateProject(ctx context.Context, token string, in api.ProjectInput) (models.Project, error)
	UpdateProject(ctx context.Context, token, id string, in api.ProjectUpdate) (models.Project, error)
	DeleteProject(ctx context.Context, token, id string) error

	ListTasks(ctx context.Context, token string) ([]models.Task, error)
	CreateTask(ctx context.Context, token string, in api.TaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, token string, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, token, id string) error
}

// NotificationRepo persists notifications, which the API does not serve
type NotificationRepo interface {
	SaveNotification(n models.Notification) error
	ListNotifications(userID string) ([]models.Notification, error)
	MarkNotificationRead(id string) error
	MarkAllNotificationsRead(userID string) error
	DeleteNotification(id string) error
}

// HistoryRepo persists task change history across runs
type HistoryRepo interface {
	SaveTaskLog(l models.TaskLog) error
	ListTaskLogs(taskID string) ([]models.TaskLog, error)
	DeleteTaskLogs(taskID string) error
}

// Repo is the local persistence the syncer needs
type Repo interface {
	NotificationRepo
	HistoryRepo
}

// Syncer coordinates the session, the stores and the remote API
type Syncer struct {
	remote  Remote
	store   *store.Store
	session *session.Store
	repo    Repo
	log     *logrus.Entry
}

// New wires a syncer
func New(remote Remote, st *store.Store, sess *session.Store, repo Repo, log *logrus.Entry) *Syncer {
	s := &Syncer{
		remote:  remote,
		store:   st,
		session: sess,
		repo:    repo,
		log:     log.WithField("component", "syncer"),
	}
	sess.Subscribe(func(e session.Event) {
		s.log.WithField("event", e.String()).Info("session changed")
	})
	return s
}

// Store returns the stores the syncer writes to
func (s *Syncer) Store() *store.Store { return s.store }

// Session returns the session the syncer reads the token from
func (s *Syncer) Session() *session.Store { return s.session }

// Login signs in against the API and persists the session. A rejected
// login leaves the session and the stores untouched.
func (s *Syncer) Login(ctx context.Context, email, password string) (models.User, error) {
	const op = "syncer.Login"
	log := s.log.WithField("operation", op)

	user, token, err := s.remote.Login(ctx, email, password)
	if err != nil {
		log.WithError(err).Warn("login rejected")
		return models.User{}, err
	}
	if err := s.session.Login(user, token); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.LoadNotifications(); err != nil {
		log.WithError(err).Warn("could not load notifications")
	}
	return user, nil
}

// Logout ends the session and empties every store
func (s *Syncer) Logout() error {
	err := s.session.Logout()
	s.store.Reset()
	return err
}

// UpdateProfile changes the local user record. The API has no profile
// endpoint, so nothing is sent.
func (s *Syncer) UpdateProfile(u session.ProfileUpdate) (models.User, error) {
	return s.session.UpdateProfile(u)
}
