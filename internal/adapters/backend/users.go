package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rentora/rentora-ui/internal/domain/model"
	apperrors "github.com/rentora/rentora-ui/internal/errors"
	"github.com/rentora/rentora-ui/internal/ports"
)

// The users surface doubles as the session manager's directory and role
// lookup ports.
var (
	_ ports.Directory  = (*Client)(nil)
	_ ports.RoleLookup = (*Client)(nil)
)

// ListUsers fetches every directory record.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserByEmail fetches one directory record by email.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(email), nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// RegisterUser upserts a directory record right after email/password sign-up.
func (c *Client) RegisterUser(ctx context.Context, req model.RegisterUserRequest) error {
	return c.do(ctx, http.MethodPost, "/users", req, nil)
}

// UpsertFederatedUser upserts a directory record after a federated sign-in;
// federated sign-in doubles as implicit registration.
func (c *Client) UpsertFederatedUser(ctx context.Context, req model.FederatedUpsertRequest) error {
	return c.do(ctx, http.MethodPut, "/users", req, nil)
}

// UpdateProfile saves profile edits.
func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/users/profile", req, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// MakeAdmin grants the admin role to an email.
func (c *Client) MakeAdmin(ctx context.Context, req model.MakeAdminRequest) error {
	return c.do(ctx, http.MethodPut, "/users/make-admin", req, nil)
}

// DeleteUser removes a directory record.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// AdminFor resolves the admin flag for an email. A missing directory record
// means "not admin", never an error: registration may still be in flight.
func (c *Client) AdminFor(ctx context.Context, email string) (bool, error) {
	user, err := c.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return user.Admin, nil
}
