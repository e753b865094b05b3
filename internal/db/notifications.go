package db

import (
	"github.com/tgienger/taskdash/internal/models"
)

// SaveNotification inserts or replaces a notification
func (db *DB) SaveNotification(n models.Notification) error {
	_, err := db.Exec(`
		INSERT INTO notifications (id, user_id, title, message, type, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			message = excluded.message,
			type = excluded.type,
			read = excluded.read
	`, n.ID, n.UserID, n.Title, n.Message, string(n.Type), n.Read, n.CreatedAt.UTC())
	return err
}

// ListNotifications returns a user's notifications, newest first
func (db *DB) ListNotifications(userID string) ([]models.Notification, error) {
	rows, err := db.Query(`
		SELECT id, user_id, title, message, type, read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = models.ParseNotificationType(typ)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flags a single notification as read
func (db *DB) MarkNotificationRead(id string) error {
	_, err := db.Exec("UPDATE notifications SET read = 1 WHERE id = ?", id)
	return err
}

// MarkAllNotificationsRead flags every notification of a user as read
func (db *DB) MarkAllNotificationsRead(userID string) error {
	_, err := db.Exec("UPDATE notifications SET read = 1 WHERE user_id = ?", userID)
	return err
}

// DeleteNotification deletes a notification
func (db *DB) DeleteNotification(id string) error {
	_, err := db.Exec("DELETE FROM notifications WHERE id = ?", id)
	return err
}
