package syncer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/session"
)

// LoadNotifications fills the notification store from local persistence
func (s *Syncer) LoadNotifications() error {
	const op = "syncer.LoadNotifications"
	u, ok := s.session.User()
	if !ok {
		return session.ErrNotAuthenticated
	}
	list, err := s.repo.ListNotifications(u.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.store.Notifications.ReplaceAll(list)
	return nil
}

// Notify creates an unread notification for the signed-in user
func (s *Syncer) Notify(title, message string, typ models.NotificationType) (models.Notification, error) {
	const op = "syncer.Notify"
	u, ok := s.session.User()
	if !ok {
		return models.Notification{}, session.ErrNotAuthenticated
	}
	n := models.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now(),
		UserID:    u.ID,
	}
	if err := s.repo.SaveNotification(n); err != nil {
		return models.Notification{}, fmt.Errorf("%s: %w", op, err)
	}
	s.store.Notifications.InsertOne(n)
	return n, nil
}

// MarkNotificationRead marks one notification read
func (s *Syncer) MarkNotificationRead(id string) error {
	if err := s.repo.MarkNotificationRead(id); err != nil {
		return fmt.Errorf("syncer.MarkNotificationRead: %w", err)
	}
	s.store.Notifications.MarkAsRead(id)
	return nil
}

// MarkAllNotificationsRead marks every notification of the user read
func (s *Syncer) MarkAllNotificationsRead() error {
	u, ok := s.session.User()
	if !ok {
		return session.ErrNotAuthenticated
	}
	if err := s.repo.MarkAllNotificationsRead(u.ID); err != nil {
		return fmt.Errorf("syncer.MarkAllNotificationsRead: %w", err)
	}
	s.store.Notifications.MarkAllAsRead()
	return nil
}

// RemoveNotification deletes a notification
func (s *Syncer) RemoveNotification(id string) error {
	if err := s.repo.DeleteNotification(id); err != nil {
		return fmt.Errorf("syncer.RemoveNotification: %w", err)
	}
	s.store.Notifications.RemoveOne(id)
	return nil
}
