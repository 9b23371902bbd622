package services

import (
	"context"
	"errors"
	"testing"

	"github.com/forge-platform/dactl/internal/core/domain"
)

type mockAppBundleAPI struct {
	registerErr error
	uploadErr   error
	aliasErr    error
	steps       []string
	lastAlias   domain.Alias
}

func (m *mockAppBundleAPI) Register(_ context.Context, _ domain.AppBundle) (*domain.UploadParameters, error) {
	m.steps = append(m.steps, "register")
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &domain.UploadParameters{
		EndpointURL: "https://upload.example.com",
		FormData:    map[string]string{"key": "bundle.zip"},
	}, nil
}

func (m *mockAppBundleAPI) Upload(_ context.Context, _ domain.UploadParameters, _ string) error {
	m.steps = append(m.steps, "upload")
	return m.uploadErr
}

func (m *mockAppBundleAPI) CreateAlias(_ context.Context, _ string, alias domain.Alias) error {
	m.steps = append(m.steps, "alias")
	m.lastAlias = alias
	return m.aliasErr
}

func (m *mockAppBundleAPI) List(_ context.Context) ([]string, error) { return nil, nil }
func (m *mockAppBundleAPI) Delete(_ context.Context, _ string) error { return nil }

func TestDeployRunsStepsInOrder(t *testing.T) {
	api := &mockAppBundleAPI{}
	deployer := NewDeployer(api, nil)

	err := deployer.Deploy(context.Background(), DeployOptions{
		Bundle:       domain.AppBundle{ID: "Bundle", Engine: "Autodesk.Fusion+Latest"},
		ZipPath:      "bundle.zip",
		AliasID:      "my_current_version",
		AliasVersion: "1",
	})
	if err != nil {
		t.Fatalf("Deploy failed: %v", err)
	}

	want := []string{"register", "upload", "alias"}
	if len(api.steps) != len(want) {
		t.Fatalf("Expected steps %v, got %v", want, api.steps)
	}
	for i := range want {
		if api.steps[i] != want[i] {
			t.Fatalf("Expected steps %v, got %v", want, api.steps)
		}
	}
	if api.lastAlias.ID != "my_current_version" || api.lastAlias.Version != "1" {
		t.Errorf("Unexpected alias: %+v", api.lastAlias)
	}
}

func TestDeploySkipUpload(t *testing.T) {
	api := &mockAppBundleAPI{}
	deployer := NewDeployer(api, nil)

	err := deployer.Deploy(context.Background(), DeployOptions{
		Bundle:       domain.AppBundle{ID: "Bundle"},
		AliasID:      "prod",
		AliasVersion: "2",
		SkipUpload:   true,
	})
	if err != nil {
		t.Fatalf("Deploy failed: %v", err)
	}

	for _, step := range api.steps {
		if step == "upload" {
			t.Error("Upload step should have been skipped")
		}
	}
}

func TestDeployAbortsWhenRegisterFails(t *testing.T) {
	wantErr := errors.New("register rejected")
	api := &mockAppBundleAPI{registerErr: wantErr}
	deployer := NewDeployer(api, nil)

	err := deployer.Deploy(context.Background(), DeployOptions{Bundle: domain.AppBundle{ID: "Bundle"}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected register error, got %v", err)
	}
	if len(api.steps) != 1 {
		t.Errorf("No step should run after a failed register, got %v", api.steps)
	}
}

func TestDeployAbortsWhenUploadFails(t *testing.T) {
	wantErr := errors.New("upload rejected")
	api := &mockAppBundleAPI{uploadErr: wantErr}
	deployer := NewDeployer(api, nil)

	err := deployer.Deploy(context.Background(), DeployOptions{
		Bundle:  domain.AppBundle{ID: "Bundle"},
		ZipPath: "bundle.zip",
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected upload error, got %v", err)
	}
	for _, step := range api.steps {
		if step == "alias" {
			t.Error("Alias step should not run after a failed upload")
		}
	}
}
