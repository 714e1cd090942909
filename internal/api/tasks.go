package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hnguyen/teamboard/internal/model"
)

// TaskQuery holds the recognized filters for task collection fetches.
// Anything the client does not recognize goes in Extra and is passed
// through to the backend untouched.
type TaskQuery struct {
	// Type selects the logical task slice: "my", "team", "created",
	// "unassigned", or "all".
	Type string

	Status   string
	Priority string

	// Search is free-text matched by the backend.
	Search string

	Tags []string

	Page  int
	Limit int

	SortBy string
	// SortDesc flips the sort direction; the backend default is
	// ascending.
	SortDesc bool

	// Extra carries unrecognized filters through verbatim.
	Extra url.Values
}

// Values encodes the query as request parameters.
func (q TaskQuery) Values() url.Values {
	v := url.Values{}
	for key, vals := range q.Extra {
		v[key] = append([]string(nil), vals...)
	}

	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Priority != "" {
		v.Set("priority", q.Priority)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(q.Tags) > 0 {
		v.Set("tags", strings.Join(q.Tags, ","))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
		dir := "asc"
		if q.SortDesc {
			dir = "desc"
		}
		v.Set("sortDirection", dir)
	}
	return v
}

// TaskDraft is the payload for creating a task.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	AssigneeID  string   `json:"assigneeId,omitempty"`
	MemberID    string   `json:"memberId,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// TaskService provides typed access to the tasks resource.
type TaskService struct {
	client *Client
}

// NewTaskService creates a task service over the given client.
func NewTaskService(c *Client) *TaskService {
	return &TaskService{client: c}
}

// List fetches a page of tasks matching the query.
func (s *TaskService) List(
	ctx context.Context,
	query TaskQuery,
) (Page[model.Task], error) {
	page, err := FetchCollection[model.Task](
		ctx, s.client, "/api/tasks", query.Values(),
	)
	if err != nil {
		return Page[model.Task]{}, fmt.Errorf("listing tasks: %w", err)
	}
	return page, nil
}

// Create creates a new task. Never retried.
func (s *TaskService) Create(
	ctx context.Context,
	draft TaskDraft,
) (model.Task, error) {
	var task model.Task
	if err := s.client.Post(ctx, "/api/tasks", draft, &task); err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}
	return task, nil
}

// Update applies a partial update to a task. The patch keys mirror the
// Task JSON field names.
func (s *TaskService) Update(
	ctx context.Context,
	id string,
	patch map[string]interface{},
) (model.Task, error) {
	var task model.Task
	path := "/api/tasks/" + url.PathEscape(id)
	if err := s.client.Patch(ctx, path, patch, &task); err != nil {
		return model.Task{}, fmt.Errorf("updating task %s: %w", id, err)
	}
	return task, nil
}

// UpdateStatus sets a task's status. The backend owns the coupling
// between status and progress; the client sends only what was asked.
func (s *TaskService) UpdateStatus(
	ctx context.Context,
	id string,
	status string,
) (model.Task, error) {
	var task model.Task
	path := "/api/tasks/" + url.PathEscape(id) + "/status"
	body := map[string]string{"status": status}
	if err := s.client.Patch(ctx, path, body, &task); err != nil {
		return model.Task{}, fmt.Errorf(
			"updating status of task %s: %w", id, err,
		)
	}
	return task, nil
}

// UpdateProgress sets a task's progress percentage.
func (s *TaskService) UpdateProgress(
	ctx context.Context,
	id string,
	progress int,
) (model.Task, error) {
	var task model.Task
	path := "/api/tasks/" + url.PathEscape(id) + "/progress"
	body := map[string]int{"progress": progress}
	if err := s.client.Patch(ctx, path, body, &task); err != nil {
		return model.Task{}, fmt.Errorf(
			"updating progress of task %s: %w", id, err,
		)
	}
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	path := "/api/tasks/" + url.PathEscape(id)
	if err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}
