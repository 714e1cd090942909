package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hnguyen/teamboard/internal/model"
)

// UserService provides typed access to the users resource.
type UserService struct {
	client *Client
}

// NewUserService creates a user service over the given client.
func NewUserService(c *Client) *UserService {
	return &UserService{client: c}
}

// List fetches a page of users.
func (s *UserService) List(
	ctx context.Context,
	page, limit int,
) (Page[model.User], error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}

	result, err := FetchCollection[model.User](
		ctx, s.client, "/api/users", query,
	)
	if err != nil {
		return Page[model.User]{}, fmt.Errorf("listing users: %w", err)
	}
	return result, nil
}

// Get fetches a single user.
func (s *UserService) Get(
	ctx context.Context,
	id string,
) (model.User, error) {
	var user model.User
	path := "/api/users/" + url.PathEscape(id)
	if err := s.client.Get(ctx, path, nil, &user); err != nil {
		return model.User{}, fmt.Errorf("fetching user %s: %w", id, err)
	}
	return user, nil
}

// Skills fetches a user's skill list sub-resource.
func (s *UserService) Skills(
	ctx context.Context,
	id string,
) ([]model.Skill, error) {
	var skills []model.Skill
	path := "/api/users/" + url.PathEscape(id) + "/skills"
	if err := s.client.Get(ctx, path, nil, &skills); err != nil {
		return nil, fmt.Errorf("fetching skills of user %s: %w", id, err)
	}
	return skills, nil
}

// UpdateProfile applies a partial update to a user profile.
func (s *UserService) UpdateProfile(
	ctx context.Context,
	id string,
	patch map[string]interface{},
) (model.User, error) {
	var user model.User
	path := "/api/users/" + url.PathEscape(id) + "/profile"
	if err := s.client.Patch(ctx, path, patch, &user); err != nil {
		return model.User{}, fmt.Errorf("updating user %s: %w", id, err)
	}
	return user, nil
}
