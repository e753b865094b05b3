package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tgienger/taskdash/internal/api"
	"github.com/tgienger/taskdash/internal/models"
)

// ErrUnknownTask is returned for a task id not present in the store
var ErrUnknownTask = errors.New("task not found")

// CreateProject creates a project and puts the confirmed record first
func (s *Syncer) CreateProject(ctx context.Context, in api.ProjectInput) (models.Project, error) {
	const op = "syncer.CreateProject"
	p, err := s.remote.CreateProject(ctx, s.session.Token(), in)
	if err != nil {
		s.log.WithField("operation", op).WithError(err).Error("create project failed")
		return models.Project{}, err
	}
	s.store.Projects.InsertOne(p)
	s.notifySuccess("Project created", fmt.Sprintf("%q was created", p.Title))
	return p, nil
}

// UpdateProject edits a project and stores the confirmed record in place
func (s *Syncer) UpdateProject(ctx context.Context, id string, in api.ProjectUpdate) (models.Project, error) {
	const op = "syncer.UpdateProject"
	p, err := s.remote.UpdateProject(ctx, s.session.Token(), id, in)
	if err != nil {
		s.log.WithField("operation", op).WithError(err).Error("update project failed")
		return models.Project{}, err
	}
	if p.ID == "" {
		p.ID = id
	}
	if !s.store.Projects.ReplaceOne(p) {
		s.log.WithField("operation", op).WithField("project_id", id).Debug("updated project is not loaded")
	}
	s.notifySuccess("Project updated", fmt.Sprintf("%q was updated", p.Title))
	return p, nil
}

// DeleteProject deletes a project and, once confirmed, its tasks locally
func (s *Syncer) DeleteProject(ctx context.Context, id string) error {
	const op = "syncer.DeleteProject"
	log := s.log.WithField("operation", op).WithField("project_id", id)

	if err := s.remote.DeleteProject(ctx, s.session.Token(), id); err != nil {
		log.WithError(err).Error("delete project failed")
		return err
	}
	removed, _ := s.store.Projects.RemoveOne(id)
	n := s.store.Tasks.RemoveByProject(id)
	log.WithField("tasks_removed", n).Info("project deleted")
	s.notifySuccess("Project deleted", fmt.Sprintf("%q was deleted", removed.Title))
	return nil
}

// CreateTask creates a task and puts the confirmed record first
func (s *Syncer) CreateTask(ctx context.Context, in api.TaskInput) (models.Task, error) {
	const op = "syncer.CreateTask"
	if in.CreatedBy == "" {
		if u, ok := s.session.User(); ok {
			in.CreatedBy = u.ID
		}
	}
	t, err := s.remote.CreateTask(ctx, s.session.Token(), in)
	if err != nil {
		s.log.WithField("operation", op).WithError(err).Error("create task failed")
		return models.Task{}, err
	}
	s.store.Tasks.InsertOne(t)
	s.record(t.ID, "created", "", t.Title)
	s.notifySuccess("Task created", fmt.Sprintf("%q was created", t.Title))
	return t, nil
}

// UpdateTask sends the whole task and stores the confirmed record in place
func (s *Syncer) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	const op = "syncer.UpdateTask"
	prev, loaded := s.store.Tasks.Get(task.ID)

	t, err := s.replaceTask(ctx, op, task)
	if err != nil {
		return models.Task{}, err
	}
	if loaded {
		s.recordDiff(prev, t)
	}
	s.notifySuccess("Task updated", fmt.Sprintf("%q was updated", t.Title))
	return t, nil
}

// recordDiff logs one history entry per changed field
func (s *Syncer) recordDiff(prev, t models.Task) {
	if prev.Title != t.Title {
		s.record(t.ID, "title_changed", prev.Title, t.Title)
	}
	if prev.Status != t.Status {
		s.record(t.ID, "status_changed", string(prev.Status), string(t.Status))
	}
	if prev.Priority != t.Priority {
		s.record(t.ID, "priority_changed", string(prev.Priority), string(t.Priority))
	}
	if prev.AssignedTo != t.AssignedTo {
		s.record(t.ID, "assigned", prev.AssignedTo, t.AssignedTo)
	}
}

// SetTaskStatus changes only the status of a loaded task. The store shows
// the new status once the server has confirmed it.
func (s *Syncer) SetTaskStatus(ctx context.Context, id string, status models.TaskStatus) (models.Task, error) {
	const op = "syncer.SetTaskStatus"
	task, ok := s.store.Tasks.Get(id)
	if !ok {
		return models.Task{}, fmt.Errorf("%s: %s: %w", op, id, ErrUnknownTask)
	}
	prev := task.Status
	task.Status = status

	t, err := s.replaceTask(ctx, op, task)
	if err != nil {
		return models.Task{}, err
	}
	s.record(t.ID, "status_changed", string(prev), string(t.Status))
	s.notifySuccess("Task status changed", fmt.Sprintf("%q is now %s", t.Title, t.Status))
	return t, nil
}

// DeleteTask deletes a task and removes it from the store once confirmed
func (s *Syncer) DeleteTask(ctx context.Context, id string) error {
	const op = "syncer.DeleteTask"
	if err := s.remote.DeleteTask(ctx, s.session.Token(), id); err != nil {
		s.log.WithField("operation", op).WithField("task_id", id).WithError(err).Error("delete task failed")
		return err
	}
	removed, _ := s.store.Tasks.RemoveOne(id)
	s.store.Tasks.RemoveLogs(id)
	if err := s.repo.DeleteTaskLogs(id); err != nil {
		s.log.WithField("operation", op).WithField("task_id", id).WithError(err).Warn("could not drop task history")
	}
	s.notifySuccess("Task deleted", fmt.Sprintf("%q was deleted", removed.Title))
	return nil
}

func (s *Syncer) replaceTask(ctx context.Context, op string, task models.Task) (models.Task, error) {
	t, err := s.remote.UpdateTask(ctx, s.session.Token(), task)
	if err != nil {
		s.log.WithField("operation", op).WithField("task_id", task.ID).WithError(err).Error("update task failed")
		return models.Task{}, err
	}
	if t.ID == "" {
		t.ID = task.ID
	}
	if !s.store.Tasks.ReplaceOne(t) {
		s.log.WithField("operation", op).WithField("task_id", t.ID).Debug("updated task is not loaded")
	}
	return t, nil
}

// record appends a history entry for a confirmed task change
func (s *Syncer) record(taskID, action, oldValue, newValue string) {
	u, _ := s.session.User()
	l := models.TaskLog{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Action:    action,
		OldValue:  oldValue,
		NewValue:  newValue,
		UserID:    u.ID,
		UserName:  u.Name,
		Timestamp: time.Now(),
	}
	s.store.Tasks.AddLog(l)
	if err := s.repo.SaveTaskLog(l); err != nil {
		s.log.WithError(err).WithField("task_id", taskID).Warn("could not persist task history")
	}
}

// TaskHistory returns the change history of a task, newest first. The
// in-memory history of this run is used when the database can't be read.
func (s *Syncer) TaskHistory(taskID string) []models.TaskLog {
	logs, err := s.repo.ListTaskLogs(taskID)
	if err != nil {
		s.log.WithError(err).WithField("task_id", taskID).Warn("could not load task history")
		return s.store.Tasks.Logs(taskID)
	}
	return logs
}

// notifySuccess emits a success notification; a failure to persist it does
// not fail the mutation that triggered it.
func (s *Syncer) notifySuccess(title, message string) {
	if _, err := s.Notify(title, message, models.NotificationSuccess); err != nil {
		s.log.WithField("operation", "syncer.notifySuccess").WithError(err).Warn("notification not saved")
	}
}
