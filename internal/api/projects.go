package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/tgienger/taskdash/internal/models"
)

// ProjectInput is the data needed to create a project
type ProjectInput struct {
	Title       string
	Description string
	Members     []string
	Status      models.ProjectStatus
}

// ProjectUpdate is the editable part of a project
type ProjectUpdate struct {
	Title       string
	Description string
	Members     []string
}

// ListProjects fetches every project visible to the token
func (c *Client) ListProjects(ctx context.Context, token string) ([]models.Project, error) {
	var wire []projectWire
	err := c.do(ctx, request{
		op:     "list projects",
		method: http.MethodGet,
		path:   "/projects",
		token:  token,
		auth:   true,
	}, &wire)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	projects := make([]models.Project, 0, len(wire))
	for _, w := range wire {
		projects = append(projects, w.model(now))
	}
	return projects, nil
}

// CreateProject creates a project and returns the record the API stored
func (c *Client) CreateProject(ctx context.Context, token string, in ProjectInput) (models.Project, error) {
	members := in.Members
	if members == nil {
		members = []string{}
	}
	var wire projectWire
	err := c.do(ctx, request{
		op:     "create project",
		method: http.MethodPost,
		path:   "/projects",
		token:  token,
		auth:   true,
		body: createProjectRequest{
			Name:        in.Title,
			Description: in.Description,
			MemberIDs:   members,
			Status:      in.Status.Code(),
		},
	}, &wire)
	if err != nil {
		return models.Project{}, err
	}
	return wire.model(time.Now()), nil
}

// UpdateProject changes name, description and members of a project
func (c *Client) UpdateProject(ctx context.Context, token, id string, in ProjectUpdate) (models.Project, error) {
	members := in.Members
	if members == nil {
		members = []string{}
	}
	var wire projectWire
	err := c.do(ctx, request{
		op:     "update project",
		method: http.MethodPut,
		path:   "/projects/" + url.PathEscape(id),
		token:  token,
		auth:   true,
		body: updateProjectRequest{
			Name:        in.Title,
			Description: in.Description,
			MemberIDs:   members,
		},
	}, &wire)
	if err != nil {
		return models.Project{}, err
	}
	return wire.model(time.Now()), nil
}

// DeleteProject deletes a project
func (c *Client) DeleteProject(ctx context.Context, token, id string) error {
	return c.do(ctx, request{
		op:     "delete project",
		method: http.MethodDelete,
		path:   "/projects/" + url.PathEscape(id),
		token:  token,
		auth:   true,
	}, nil)
}
