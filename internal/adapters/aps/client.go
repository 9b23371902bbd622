// Package aps implements the HTTP adapters for the Autodesk Platform
// Services Design Automation API.
package aps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/forge-platform/dactl/internal/core/ports"
	"github.com/forge-platform/dactl/internal/core/services"
)

// ErrNonJSONResponse is returned when an endpoint that must answer with a
// JSON body answers with something else.
var ErrNonJSONResponse = errors.New("response body is not JSON")

// Endpoints locate the remote API. Defaults point at the public Autodesk
// service; tests override BaseURL with an httptest server.
type Endpoints struct {
	// BaseURL is the API host, e.g. https://developer.api.autodesk.com.
	BaseURL string

	// DesignAutomationPath is the versioned Design Automation prefix
	// under BaseURL, e.g. da/us-east/v3.
	DesignAutomationPath string
}

// DefaultEndpoints returns the public Autodesk endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		BaseURL:              "https://developer.api.autodesk.com",
		DesignAutomationPath: "da/us-east/v3",
	}
}

// daURL joins the Design Automation prefix with the given path segments.
func (e Endpoints) daURL(parts ...string) string {
	segments := append([]string{strings.TrimRight(e.BaseURL, "/"), e.DesignAutomationPath}, parts...)
	return strings.Join(segments, "/")
}

// Client is the authenticated HTTP client shared by the Design Automation
// adapters. A fresh bearer token is requested for every call; tokens are
// never cached across calls.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
	tokens     ports.TokenProvider
	logger     ports.Logger
}

// NewClient creates a Design Automation API client.
func NewClient(tokens ports.TokenProvider, endpoints Endpoints, logger ports.Logger) *Client {
	if logger == nil {
		logger = &services.NopLogger{}
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoints:  endpoints,
		tokens:     tokens,
		logger:     logger,
	}
}

// doJSON issues an authenticated request with an optional JSON body and
// returns the response status code and raw body. Transport failures are
// returned as errors; non-2xx statuses are not, since several callers need
// to inspect the body either way.
func (c *Client) doJSON(ctx context.Context, method, url string, payload interface{}) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("api call", "method", method, "url", url, "status", resp.StatusCode)
	return resp.StatusCode, respBody, nil
}

// apiError renders a non-2xx response as an error carrying the body.
func apiError(op string, status int, body []byte) error {
	return fmt.Errorf("%s failed: status %d: %s", op, status, truncate(body, 512))
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
