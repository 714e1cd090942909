package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hnguyen/teamboard/internal/model"
)

// ActivityService provides typed read access to the activity feed.
type ActivityService struct {
	client *Client
}

// NewActivityService creates an activity service over the given client.
func NewActivityService(c *Client) *ActivityService {
	return &ActivityService{client: c}
}

// List fetches a page of activity entries, newest first.
func (s *ActivityService) List(
	ctx context.Context,
	page, limit int,
) (Page[model.Activity], error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}

	result, err := FetchCollection[model.Activity](
		ctx, s.client, "/api/activities", query,
	)
	if err != nil {
		return Page[model.Activity]{}, fmt.Errorf(
			"listing activities: %w", err,
		)
	}
	return result, nil
}
