package api

import (
	"context"
	"fmt"
)

// GetUser returns the user that owns the access token.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var resp userResponse
	if err := c.Get(ctx, "/user", &resp); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &resp.User, nil
}

// GetTeams returns the workspaces the user belongs to.
func (c *Client) GetTeams(ctx context.Context) ([]Team, error) {
	var resp teamsResponse
	if err := c.Get(ctx, "/team", &resp); err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	if resp.Teams == nil {
		return []Team{}, nil
	}
	return resp.Teams, nil
}
