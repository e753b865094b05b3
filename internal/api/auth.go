package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tgienger/taskdash/internal/models"
)

// ErrLoginFailed is returned when the API accepts the login request but
// does not hand out a usable session
var ErrLoginFailed = errors.New("login failed")

// Login exchanges credentials for a bearer token and the user record
func (c *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	var resp loginResponse
	err := c.do(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return models.User{}, "", err
	}
	if resp.Token == "" || resp.User.ID == "" {
		return models.User{}, "", fmt.Errorf("login: %w: response has no token or user", ErrLoginFailed)
	}

	user := resp.User.model()
	if user.Avatar == "" {
		user.Avatar = models.DefaultAvatar
	}
	return user, resp.Token, nil
}

// ListUsers fetches the team members
func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	var wire []userWire
	err := c.do(ctx, request{
		op:     "list users",
		method: http.MethodGet,
		path:   "/users",
		token:  token,
		auth:   true,
	}, &wire)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(wire))
	for _, w := range wire {
		users = append(users, w.model())
	}
	return users, nil
}
