package aps

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/forge-platform/dactl/internal/core/ports"
	"github.com/forge-platform/dactl/internal/core/services"
)

// DefaultScope is the OAuth scope the toolkit requests: code execution plus
// the bucket and data grants the bundled scripts need.
const DefaultScope = "code:all bucket:create bucket:read data:create data:write data:read"

// ErrMissingAccessToken is returned when the token endpoint answers without
// an access_token field, typically on bad credentials.
var ErrMissingAccessToken = errors.New("token response contains no access_token")

// AuthClient implements ports.TokenProvider against the Autodesk
// authentication v2 token endpoint using the client-credentials grant.
type AuthClient struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	scope        string
	logger       ports.Logger
}

// NewAuthClient creates a token provider for the given client credentials.
// An empty scope falls back to DefaultScope.
func NewAuthClient(baseURL, clientID, clientSecret, scope string, logger ports.Logger) *AuthClient {
	if scope == "" {
		scope = DefaultScope
	}
	if logger == nil {
		logger = &services.NopLogger{}
	}
	return &AuthClient{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
		logger:       logger,
	}
}

// Token exchanges the client credentials for a bearer token. Every call
// hits the token endpoint; results are deliberately not cached so each
// command runs with a fresh token.
func (c *AuthClient) Token(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {c.scope},
	}

	endpoint := c.baseURL + "/authentication/v2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: status %d", ErrMissingAccessToken, resp.StatusCode)
	}

	c.logger.Debug("access token minted", "expires_in", body.ExpiresIn)
	return body.AccessToken, nil
}

var _ ports.TokenProvider = (*AuthClient)(nil)
