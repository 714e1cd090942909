package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hnguyen/teamboard/internal/model"
)

// TeamDraft is the payload for creating or replacing a team.
type TeamDraft struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Department  string `json:"department,omitempty"`
	LeadID      string `json:"leadId,omitempty"`
}

// TeamService provides typed access to the teams resource.
type TeamService struct {
	client *Client
}

// NewTeamService creates a team service over the given client.
func NewTeamService(c *Client) *TeamService {
	return &TeamService{client: c}
}

// List fetches a page of teams including their member lists.
func (s *TeamService) List(
	ctx context.Context,
	page, limit int,
) (Page[model.Team], error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}

	result, err := FetchCollection[model.Team](
		ctx, s.client, "/api/teams", query,
	)
	if err != nil {
		return Page[model.Team]{}, fmt.Errorf("listing teams: %w", err)
	}
	return result, nil
}

// Get fetches a single team.
func (s *TeamService) Get(
	ctx context.Context,
	id string,
) (model.Team, error) {
	var team model.Team
	path := "/api/teams/" + url.PathEscape(id)
	if err := s.client.Get(ctx, path, nil, &team); err != nil {
		return model.Team{}, fmt.Errorf("fetching team %s: %w", id, err)
	}
	return team, nil
}

// Create creates a new team.
func (s *TeamService) Create(
	ctx context.Context,
	draft TeamDraft,
) (model.Team, error) {
	var team model.Team
	if err := s.client.Post(ctx, "/api/teams", draft, &team); err != nil {
		return model.Team{}, fmt.Errorf("creating team: %w", err)
	}
	return team, nil
}

// Update replaces a team's fields.
func (s *TeamService) Update(
	ctx context.Context,
	id string,
	draft TeamDraft,
) (model.Team, error) {
	var team model.Team
	path := "/api/teams/" + url.PathEscape(id)
	if err := s.client.Put(ctx, path, draft, &team); err != nil {
		return model.Team{}, fmt.Errorf("updating team %s: %w", id, err)
	}
	return team, nil
}

// Delete removes a team.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	path := "/api/teams/" + url.PathEscape(id)
	if err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting team %s: %w", id, err)
	}
	return nil
}

// AddMember adds a user to a team with the given role.
func (s *TeamService) AddMember(
	ctx context.Context,
	teamID, userID, role string,
) (model.TeamMember, error) {
	var member model.TeamMember
	path := "/api/teams/" + url.PathEscape(teamID) + "/members"
	body := map[string]string{"userId": userID, "role": role}
	if err := s.client.Post(ctx, path, body, &member); err != nil {
		return model.TeamMember{}, fmt.Errorf(
			"adding member to team %s: %w", teamID, err,
		)
	}
	return member, nil
}

// RemoveMember removes a membership from a team.
func (s *TeamService) RemoveMember(
	ctx context.Context,
	teamID, memberID string,
) error {
	path := "/api/teams/" + url.PathEscape(teamID) +
		"/members/" + url.PathEscape(memberID)
	if err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf(
			"removing member %s from team %s: %w", memberID, teamID, err,
		)
	}
	return nil
}
