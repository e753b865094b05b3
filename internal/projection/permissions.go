package projection

import "github.com/tgienger/taskdash/internal/models"

// The checks below only decide which controls the UI shows. They are not a
// security boundary: the API performs the authoritative checks.

// CanCreateProject reports whether the project create control is shown
func CanCreateProject(u models.User) bool {
	return u.Role == models.RoleAdmin
}

// CanEditProject reports whether project edit and delete controls are shown
func CanEditProject(u models.User) bool {
	return u.Role == models.RoleAdmin
}

// CanCreateTask reports whether the task create control is shown
func CanCreateTask(u models.User) bool {
	return u.Role == models.RoleAdmin || u.Role == models.RoleManager
}

// CanEditTask reports whether t can be edited or have its status changed by u
func CanEditTask(u models.User, t models.Task) bool {
	return u.Role == models.RoleAdmin || u.Role == models.RoleManager || (u.ID != "" && t.CreatedBy == u.ID)
}

// CanDeleteTask reports whether the delete control is shown for t
func CanDeleteTask(u models.User, t models.Task) bool {
	return u.Role == models.RoleAdmin || (u.ID != "" && t.CreatedBy == u.ID)
}
