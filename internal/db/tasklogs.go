package db

import (
	"github.com/tgienger/taskdash/internal/models"
)

// SaveTaskLog appends a history entry for a task
func (db *DB) SaveTaskLog(l models.TaskLog) error {
	_, err := db.Exec(`
		INSERT INTO task_logs (id, task_id, action, old_value, new_value, user_id, user_name, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.TaskID, l.Action, l.OldValue, l.NewValue, l.UserID, l.UserName, l.Timestamp.UTC())
	return err
}

// ListTaskLogs returns the history of a task, newest first
func (db *DB) ListTaskLogs(taskID string) ([]models.TaskLog, error) {
	rows, err := db.Query(`
		SELECT id, task_id, action, old_value, new_value, user_id, user_name, timestamp
		FROM task_logs
		WHERE task_id = ?
		ORDER BY timestamp DESC, rowid DESC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.TaskLog
	for rows.Next() {
		var l models.TaskLog
		if err := rows.Scan(&l.ID, &l.TaskID, &l.Action, &l.OldValue, &l.NewValue, &l.UserID, &l.UserName, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// DeleteTaskLogs drops the whole history of a task
func (db *DB) DeleteTaskLogs(taskID string) error {
	_, err := db.Exec("DELETE FROM task_logs WHERE task_id = ?", taskID)
	return err
}
