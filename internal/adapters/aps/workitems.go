package aps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
)

// ErrMissingWorkItemID is returned when the creation response is valid JSON
// but carries none of the recognized identifier fields.
var ErrMissingWorkItemID = errors.New("creation response contains no work item id")

// workItemIDKeys are the identifier field spellings the service has used
// historically, checked in priority order.
var workItemIDKeys = []string{"id", "workItemId", "workitemId"}

// WorkItemClient implements ports.WorkItemAPI.
type WorkItemClient struct {
	*Client
}

// NewWorkItemClient creates the work-item adapter on top of the shared
// client.
func NewWorkItemClient(client *Client) *WorkItemClient {
	return &WorkItemClient{Client: client}
}

// Create posts a work-item request and extracts the assigned identifier.
// A non-JSON body and a JSON body without a recognized identifier are
// distinct failures; neither is retried.
func (c *WorkItemClient) Create(ctx context.Context, req *domain.WorkItemRequest) (string, error) {
	status, body, err := c.doJSON(ctx, http.MethodPost, c.endpoints.daURL("workitems"), req)
	if err != nil {
		return "", err
	}

	c.logger.Info("create work item response", "status", status)

	var resp map[string]interface{}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNonJSONResponse, truncate(body, 512))
	}

	for _, key := range workItemIDKeys {
		if id, ok := resp[key].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingWorkItemID, truncate(body, 512))
}

// Status queries the current state of a work item. Any transport error,
// non-2xx status, or unparseable body is returned as an error; the poller
// treats those as "not yet determinable" and keeps going.
func (c *WorkItemClient) Status(ctx context.Context, workItemID string) (*domain.WorkItem, error) {
	status, body, err := c.doJSON(ctx, http.MethodGet, c.endpoints.daURL("workitems", workItemID), nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError("work item status query", status, body)
	}

	var resp struct {
		ID     string                `json:"id"`
		Status domain.WorkItemStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNonJSONResponse, truncate(body, 512))
	}

	item := &domain.WorkItem{
		ID:     resp.ID,
		Status: resp.Status,
		Raw:    json.RawMessage(body),
	}
	if item.ID == "" {
		item.ID = workItemID
	}
	return item, nil
}

var _ ports.WorkItemAPI = (*WorkItemClient)(nil)
