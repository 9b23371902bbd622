package aps

import (
	"context"
	"net/http"

	"github.com/forge-platform/dactl/internal/core/ports"
)

// ForgeAppClient implements ports.ForgeAppAPI.
type ForgeAppClient struct {
	*Client
}

// NewForgeAppClient creates the forge-app adapter on top of the shared
// client.
func NewForgeAppClient(client *Client) *ForgeAppClient {
	return &ForgeAppClient{Client: client}
}

// SetNickname assigns the app nickname used as the owner prefix in fully
// qualified bundle and activity ids. The service rejects the call once any
// app bundle or activity exists for the app.
func (c *ForgeAppClient) SetNickname(ctx context.Context, nickname string) error {
	payload := struct {
		Nickname string `json:"nickname"`
	}{Nickname: nickname}

	status, body, err := c.doJSON(ctx, http.MethodPatch, c.endpoints.daURL("forgeapps", "me"), payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apiError("nickname assignment", status, body)
	}
	return nil
}

var _ ports.ForgeAppAPI = (*ForgeAppClient)(nil)
