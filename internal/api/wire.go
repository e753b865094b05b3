package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/tgienger/taskdash/internal/models"
)

// dateLayout is how due dates are sent to the API
const dateLayout = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	dateLayout,
}

// flexString accepts a JSON string, number or null
type flexString string

func (f *flexString) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		*f = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(raw)
	}
	return nil
}

// enumValue is a wire enum that may be encoded as a string or an integer
type enumValue struct {
	text    string
	code    int
	numeric bool
	present bool
}

func (e *enumValue) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*e = enumValue{}
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*e = enumValue{code: n, numeric: true, present: true}
			return nil
		}
		*e = enumValue{text: s, present: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		// booleans or objects carry no usable value; let the default apply
		*e = enumValue{}
		return nil
	}
	*e = enumValue{code: int(f), numeric: true, present: true}
	return nil
}

func (e enumValue) projectStatus() models.ProjectStatus {
	switch {
	case !e.present:
		return models.ProjectActive
	case e.numeric:
		return models.ProjectStatusFromCode(e.code)
	default:
		return models.ParseProjectStatus(e.text)
	}
}

func (e enumValue) taskStatus() models.TaskStatus {
	switch {
	case !e.present:
		return models.TaskPending
	case e.numeric:
		return models.TaskStatusFromCode(e.code)
	default:
		return models.ParseTaskStatus(e.text)
	}
}

func (e enumValue) priority() models.Priority {
	switch {
	case !e.present:
		return models.PriorityLow
	case e.numeric:
		return models.PriorityFromCode(e.code)
	default:
		return models.ParsePriority(e.text)
	}
}

// parseTime reads the timestamp layouts the API is known to emit
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func timeOr(s string, fallback time.Time) time.Time {
	if t, ok := parseTime(s); ok {
		return t
	}
	return fallback
}

type projectWire struct {
	ID          flexString   `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	MemberIDs   []flexString `json:"memberIds"`
	Status      enumValue    `json:"status"`
	TasksCount  *int         `json:"tasksCount"`
	OwnerID     flexString   `json:"ownerId"`
	CreatedBy   flexString   `json:"createdBy"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

func (w projectWire) model(now time.Time) models.Project {
	p := models.Project{
		ID:          string(w.ID),
		Title:       w.Name,
		Description: w.Description,
		Status:      w.Status.projectStatus(),
		Members:     make([]string, 0, len(w.MemberIDs)),
		CreatedBy:   "unknown",
		CreatedAt:   timeOr(w.CreatedAt, now),
		UpdatedAt:   timeOr(w.UpdatedAt, now),
	}
	for _, id := range w.MemberIDs {
		p.Members = append(p.Members, string(id))
	}
	if w.TasksCount != nil {
		p.TasksCount = *w.TasksCount
	}
	switch {
	case w.OwnerID != "":
		p.CreatedBy = string(w.OwnerID)
	case w.CreatedBy != "":
		p.CreatedBy = string(w.CreatedBy)
	}
	return p
}

type taskWire struct {
	ID             flexString `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         enumValue  `json:"status"`
	Priority       enumValue  `json:"priority"`
	AssignedTo     flexString `json:"assignedTo"`
	AssignedToName string     `json:"assignedToName"`
	ProjectID      flexString `json:"projectId"`
	CreatedBy      flexString `json:"createdBy"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
	DueDate        string     `json:"dueDate"`
}

func (w taskWire) model(now time.Time) models.Task {
	t := models.Task{
		ID:             string(w.ID),
		Title:          w.Title,
		Description:    w.Description,
		Status:         w.Status.taskStatus(),
		Priority:       w.Priority.priority(),
		AssignedTo:     string(w.AssignedTo),
		AssignedToName: w.AssignedToName,
		ProjectID:      string(w.ProjectID),
		CreatedBy:      string(w.CreatedBy),
		CreatedAt:      timeOr(w.CreatedAt, now),
		UpdatedAt:      timeOr(w.UpdatedAt, now),
	}
	if due, ok := parseTime(w.DueDate); ok {
		t.DueDate = &due
	}
	return t
}

// userWire matches both "id" and "Id" style keys; encoding/json compares
// field names case-insensitively.
type userWire struct {
	ID     flexString `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   string     `json:"role"`
	Avatar string     `json:"avatar"`
}

func (w userWire) model() models.User {
	return models.User{
		ID:     string(w.ID),
		Name:   w.Name,
		Email:  w.Email,
		Role:   models.ParseRole(w.Role),
		Avatar: w.Avatar,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userWire `json:"user"`
}

type createProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"memberIds"`
	Status      int      `json:"status"`
}

// updateProjectRequest uses the PascalCase keys the update endpoint expects
type updateProjectRequest struct {
	Name        string   `json:"Name"`
	Description string   `json:"Description"`
	MemberIDs   []string `json:"MemberIds"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      int    `json:"status"`
	Priority    int    `json:"priority"`
	AssignedTo  string `json:"assignedTo"`
	CreatedBy   string `json:"createdBy"`
	ProjectID   string `json:"projectId"`
}

// taskBody is the full task object sent on update
type taskBody struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	Priority       string `json:"priority"`
	AssignedTo     string `json:"assignedTo"`
	AssignedToName string `json:"assignedToName"`
	ProjectID      string `json:"projectId"`
	CreatedBy      string `json:"createdBy"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
	DueDate        string `json:"dueDate,omitempty"`
}

func newTaskBody(t models.Task) taskBody {
	b := taskBody{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		AssignedTo:     t.AssignedTo,
		AssignedToName: t.AssignedToName,
		ProjectID:      t.ProjectID,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      formatTime(t.CreatedAt),
		UpdatedAt:      formatTime(t.UpdatedAt),
	}
	if t.DueDate != nil {
		b.DueDate = t.DueDate.Format(dateLayout)
	}
	return b
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
