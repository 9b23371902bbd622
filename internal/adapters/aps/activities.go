package aps

import (
	"context"
	"net/http"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
)

// ActivityClient implements ports.ActivityAPI.
type ActivityClient struct {
	*Client
}

// NewActivityClient creates the activity adapter on top of the shared
// client.
func NewActivityClient(client *Client) *ActivityClient {
	return &ActivityClient{Client: client}
}

// Create registers an activity.
func (c *ActivityClient) Create(ctx context.Context, activity domain.Activity) error {
	status, body, err := c.doJSON(ctx, http.MethodPost, c.endpoints.daURL("activities"), activity)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apiError("activity creation", status, body)
	}
	return nil
}

// CreateAlias points an alias at an activity version. The activity endpoint
// takes the version as an integer, unlike the app-bundle one.
func (c *ActivityClient) CreateAlias(ctx context.Context, activityID, aliasID string, version int) error {
	payload := struct {
		Version int    `json:"version"`
		ID      string `json:"id"`
	}{Version: version, ID: aliasID}

	status, body, err := c.doJSON(ctx, http.MethodPost, c.endpoints.daURL("activities", activityID, "aliases"), payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apiError("activity alias creation", status, body)
	}
	return nil
}

// List returns the fully qualified ids of all activities visible to the
// credentials.
func (c *ActivityClient) List(ctx context.Context) ([]string, error) {
	return c.listIDs(ctx, "activities", "activity listing")
}

// Delete removes an activity and all its versions and aliases.
func (c *ActivityClient) Delete(ctx context.Context, activityID string) error {
	status, body, err := c.doJSON(ctx, http.MethodDelete, c.endpoints.daURL("activities", activityID), nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apiError("activity deletion", status, body)
	}
	return nil
}

var _ ports.ActivityAPI = (*ActivityClient)(nil)
