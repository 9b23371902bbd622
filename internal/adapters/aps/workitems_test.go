package aps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forge-platform/dactl/internal/core/domain"
)

// staticTokenProvider returns a fixed token without hitting any endpoint.
type staticTokenProvider struct {
	token string
	err   error
}

func (s *staticTokenProvider) Token(_ context.Context) (string, error) {
	return s.token, s.err
}

func newTestClient(serverURL string) *Client {
	return NewClient(&staticTokenProvider{token: "tok-test"}, Endpoints{
		BaseURL:              serverURL,
		DesignAutomationPath: "da/us-east/v3",
	}, nil)
}

func TestCreateExtractsIdentifierFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"id key", `{"id": "abc123", "status": "pending"}`, "abc123"},
		{"workItemId key", `{"workItemId": "xyz"}`, "xyz"},
		{"workitemId key", `{"workitemId": "low"}`, "low"},
		{"id wins over later keys", `{"workItemId": "second", "id": "first"}`, "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewWorkItemClient(newTestClient(server.URL))
			id, err := client.Create(context.Background(), &domain.WorkItemRequest{ActivityID: "a"})
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if id != tt.want {
				t.Errorf("Expected id %q, got %q", tt.want, id)
			}
		})
	}
}

func TestCreateMissingIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewWorkItemClient(newTestClient(server.URL))
	_, err := client.Create(context.Background(), &domain.WorkItemRequest{ActivityID: "a"})
	if !errors.Is(err, ErrMissingWorkItemID) {
		t.Errorf("Expected ErrMissingWorkItemID, got %v", err)
	}
}

func TestCreateNonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer server.Close()

	client := NewWorkItemClient(newTestClient(server.URL))
	_, err := client.Create(context.Background(), &domain.WorkItemRequest{ActivityID: "a"})
	if !errors.Is(err, ErrNonJSONResponse) {
		t.Errorf("Expected ErrNonJSONResponse, got %v", err)
	}
}

func TestCreateSendsAuthenticatedRequest(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody domain.WorkItemRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id": "wi-1"}`))
	}))
	defer server.Close()

	client := NewWorkItemClient(newTestClient(server.URL))
	req := &domain.WorkItemRequest{
		ActivityID: "nick.Act+prod",
		Arguments: domain.WorkItemArguments{
			PersonalAccessToken: "pat",
			TaskParameters:      `{"parameters":{"Width":"45"}}`,
		},
	}
	if _, err := client.Create(context.Background(), req); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if gotAuth != "Bearer tok-test" {
		t.Errorf("Expected bearer token header, got %q", gotAuth)
	}
	if gotPath != "/da/us-east/v3/workitems" {
		t.Errorf("Unexpected path %s", gotPath)
	}
	if gotBody.ActivityID != "nick.Act+prod" {
		t.Errorf("Expected activityId nick.Act+prod, got %q", gotBody.ActivityID)
	}
	if gotBody.Arguments.TaskParameters != `{"parameters":{"Width":"45"}}` {
		t.Errorf("TaskParameters should pass through as a string, got %q", gotBody.Arguments.TaskParameters)
	}
}

func TestCreateTokenFailure(t *testing.T) {
	wantErr := errors.New("bad credentials")
	client := NewWorkItemClient(NewClient(&staticTokenProvider{err: wantErr}, DefaultEndpoints(), nil))

	_, err := client.Create(context.Background(), &domain.WorkItemRequest{ActivityID: "a"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected token error to propagate, got %v", err)
	}
}

func TestStatusParsesWorkItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/da/us-east/v3/workitems/wi-9" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id": "wi-9", "status": "inprogress", "progress": "step 2"}`))
	}))
	defer server.Close()

	client := NewWorkItemClient(newTestClient(server.URL))
	item, err := client.Status(context.Background(), "wi-9")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	if item.Status != domain.WorkItemStatusInProgress {
		t.Errorf("Expected inprogress, got %s", item.Status)
	}
	if len(item.Raw) == 0 {
		t.Error("Expected the full response body to be retained")
	}
}

func TestStatusNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream unavailable`))
	}))
	defer server.Close()

	client := NewWorkItemClient(newTestClient(server.URL))
	if _, err := client.Status(context.Background(), "wi-9"); err == nil {
		t.Error("Expected an error for a non-2xx status response")
	}
}
