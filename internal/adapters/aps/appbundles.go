package aps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
)

// ErrMissingUploadParameters is returned when an app-bundle registration
// response lacks the upload target, which makes the upload step impossible.
var ErrMissingUploadParameters = errors.New("register response contains no uploadParameters")

// AppBundleClient implements ports.AppBundleAPI.
type AppBundleClient struct {
	*Client
}

// NewAppBundleClient creates the app-bundle adapter on top of the shared
// client.
func NewAppBundleClient(client *Client) *AppBundleClient {
	return &AppBundleClient{Client: client}
}

// Register creates the app bundle and returns the upload parameters for the
// bundle payload.
func (c *AppBundleClient) Register(ctx context.Context, bundle domain.AppBundle) (*domain.UploadParameters, error) {
	status, body, err := c.doJSON(ctx, http.MethodPost, c.endpoints.daURL("appbundles"), bundle)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError("app bundle registration", status, body)
	}

	var resp struct {
		UploadParameters *domain.UploadParameters `json:"uploadParameters"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNonJSONResponse, truncate(body, 512))
	}
	if resp.UploadParameters == nil || resp.UploadParameters.EndpointURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingUploadParameters, truncate(body, 512))
	}
	return resp.UploadParameters, nil
}

// Upload posts the bundle zip to the endpoint described by the upload
// parameters. The target is a pre-signed form endpoint: the formData fields
// go in as-is and the zip is attached as the "file" part. No bearer token
// is sent.
func (c *AppBundleClient) Upload(ctx context.Context, up domain.UploadParameters, zipPath string) error {
	file, err := os.Open(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open bundle zip: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range up.FormData {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile("file", filepath.Base(zipPath))
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read bundle zip: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, up.EndpointURL, &buf)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bundle upload failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError("bundle upload", resp.StatusCode, body)
	}
	c.logger.Info("bundle uploaded", "zip", zipPath, "status", resp.StatusCode)
	return nil
}

// CreateAlias points an alias at an app-bundle version. The app-bundle
// endpoint takes the version as a string, unlike the activity one.
func (c *AppBundleClient) CreateAlias(ctx context.Context, bundleID string, alias domain.Alias) error {
	status, body, err := c.doJSON(ctx, http.MethodPost, c.endpoints.daURL("appbundles", bundleID, "aliases"), alias)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apiError("app bundle alias creation", status, body)
	}
	return nil
}

// List returns the fully qualified ids of all app bundles visible to the
// credentials.
func (c *AppBundleClient) List(ctx context.Context) ([]string, error) {
	return c.listIDs(ctx, "appbundles", "app bundle listing")
}

// Delete removes an app bundle and all its versions and aliases.
func (c *AppBundleClient) Delete(ctx context.Context, bundleID string) error {
	status, body, err := c.doJSON(ctx, http.MethodDelete, c.endpoints.daURL("appbundles", bundleID), nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apiError("app bundle deletion", status, body)
	}
	return nil
}

// listIDs fetches a Design Automation collection endpoint and returns its
// "data" array of ids.
func (c *Client) listIDs(ctx context.Context, resource, op string) ([]string, error) {
	status, body, err := c.doJSON(ctx, http.MethodGet, c.endpoints.daURL(resource), nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(op, status, body)
	}

	var resp struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNonJSONResponse, truncate(body, 512))
	}
	return resp.Data, nil
}

var _ ports.AppBundleAPI = (*AppBundleClient)(nil)
