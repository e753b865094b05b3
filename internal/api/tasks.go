package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/tgienger/taskdash/internal/models"
)

// TaskInput is the data needed to create a task
type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      models.TaskStatus
	Priority    models.Priority
	AssignedTo  string
	CreatedBy   string
	ProjectID   string
}

// ListTasks fetches every task visible to the token
func (c *Client) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	var wire []taskWire
	err := c.do(ctx, request{
		op:     "list tasks",
		method: http.MethodGet,
		path:   c.tasksPath,
		token:  token,
		auth:   true,
	}, &wire)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tasks := make([]models.Task, 0, len(wire))
	for _, w := range wire {
		tasks = append(tasks, w.model(now))
	}
	return tasks, nil
}

// CreateTask creates a task and returns the record the API stored
func (c *Client) CreateTask(ctx context.Context, token string, in TaskInput) (models.Task, error) {
	body := createTaskRequest{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status.Code(),
		Priority:    in.Priority.Code(),
		AssignedTo:  in.AssignedTo,
		CreatedBy:   in.CreatedBy,
		ProjectID:   in.ProjectID,
	}
	if in.DueDate != nil {
		body.DueDate = in.DueDate.Format(dateLayout)
	}

	var wire taskWire
	err := c.do(ctx, request{
		op:     "create task",
		method: http.MethodPost,
		path:   "/tasks",
		token:  token,
		auth:   true,
		body:   body,
	}, &wire)
	if err != nil {
		return models.Task{}, err
	}
	return wire.model(time.Now()), nil
}

// UpdateTask sends the whole task and returns the record the API stored
func (c *Client) UpdateTask(ctx context.Context, token string, task models.Task) (models.Task, error) {
	var wire taskWire
	err := c.do(ctx, request{
		op:     "update task",
		method: http.MethodPut,
		path:   "/tasks/" + url.PathEscape(task.ID),
		token:  token,
		auth:   true,
		body:   newTaskBody(task),
	}, &wire)
	if err != nil {
		return models.Task{}, err
	}
	return wire.model(time.Now()), nil
}

// DeleteTask deletes a task. Any 2xx response counts, with or without body.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	return c.do(ctx, request{
		op:     "delete task",
		method: http.MethodDelete,
		path:   "/tasks/" + url.PathEscape(id),
		token:  token,
		auth:   true,
	}, nil)
}
