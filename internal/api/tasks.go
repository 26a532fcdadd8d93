package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// maxPages bounds pagination so a misbehaving server cannot loop forever.
const maxPages = 100

// now is swapped in tests.
var now = time.Now

// GetTasks returns workspace tasks matching the query.
// Handles pagination automatically, fetching pages until the API reports
// the last page or returns an empty one.
func (c *Client) GetTasks(ctx context.Context, teamID string, q TaskQuery) ([]Task, error) {
	if teamID == "" {
		return nil, fmt.Errorf("team id cannot be empty")
	}

	allTasks := make([]Task, 0)
	query := buildTaskQuery(q)

	for page := 0; page < maxPages; page++ {
		query.Set("page", strconv.Itoa(page))

		var resp tasksResponse
		if err := c.GetWithQuery(ctx, "/team/"+teamID+"/task", query, &resp); err != nil {
			return nil, fmt.Errorf("failed to get tasks: %w", err)
		}

		allTasks = append(allTasks, resp.Tasks...)

		if len(resp.Tasks) == 0 || resp.LastPage == nil || *resp.LastPage {
			break
		}
	}

	return allTasks, nil
}

// UpdateTask updates an existing task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	var task Task
	if err := c.Put(ctx, "/task/"+id, req, &task); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return &task, nil
}

// GetTaskComments returns the comments on a task.
func (c *Client) GetTaskComments(ctx context.Context, taskID string) ([]Comment, error) {
	var resp commentsResponse
	if err := c.Get(ctx, "/task/"+taskID+"/comment", &resp); err != nil {
		return nil, fmt.Errorf("failed to get comments for task %s: %w", taskID, err)
	}
	return resp.Comments, nil
}

// buildTaskQuery builds query parameters for workspace task listing.
func buildTaskQuery(q TaskQuery) url.Values {
	query := url.Values{}

	for _, id := range q.Assignees {
		query.Add("assignees[]", id)
	}
	if q.DaysBack > 0 {
		since := now().Add(-time.Duration(q.DaysBack) * 24 * time.Hour)
		query.Set("date_updated_gt", strconv.FormatInt(since.UnixMilli(), 10))
	}
	if q.IncludeClosed {
		query.Set("include_closed", "true")
	}
	if q.Subtasks {
		query.Set("subtasks", "true")
	}

	return query
}
