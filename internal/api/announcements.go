package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hnguyen/teamboard/internal/model"
)

// AnnouncementService provides typed access to the announcements
// resource.
type AnnouncementService struct {
	client *Client
}

// NewAnnouncementService creates an announcement service over the
// given client.
func NewAnnouncementService(c *Client) *AnnouncementService {
	return &AnnouncementService{client: c}
}

// List fetches a page of announcements, newest first.
func (s *AnnouncementService) List(
	ctx context.Context,
	page, limit int,
) (Page[model.Announcement], error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}

	result, err := FetchCollection[model.Announcement](
		ctx, s.client, "/api/announcements", query,
	)
	if err != nil {
		return Page[model.Announcement]{}, fmt.Errorf(
			"listing announcements: %w", err,
		)
	}
	return result, nil
}

// Create publishes a new announcement.
func (s *AnnouncementService) Create(
	ctx context.Context,
	title, body string,
) (model.Announcement, error) {
	var ann model.Announcement
	payload := map[string]string{"title": title, "body": body}
	if err := s.client.Post(ctx, "/api/announcements", payload, &ann); err != nil {
		return model.Announcement{}, fmt.Errorf(
			"creating announcement: %w", err,
		)
	}
	return ann, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	path := "/api/announcements/" + url.PathEscape(id)
	if err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting announcement %s: %w", id, err)
	}
	return nil
}
