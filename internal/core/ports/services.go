// Package ports defines the interfaces between the toolkit core and its
// adapters.
package ports

import (
	"context"

	"github.com/forge-platform/dactl/internal/core/domain"
)

// TokenProvider exchanges client credentials for a bearer token. A fresh
// token is minted on every call; nothing is cached between invocations.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// WorkItemAPI is the remote work-item surface of the Design Automation
// service.
type WorkItemAPI interface {
	// Create posts a work-item request and returns the identifier assigned
	// by the remote service.
	Create(ctx context.Context, req *domain.WorkItemRequest) (string, error)

	// Status queries the current state of a work item.
	Status(ctx context.Context, workItemID string) (*domain.WorkItem, error)
}

// AppBundleAPI is the remote app-bundle administration surface.
type AppBundleAPI interface {
	// Register creates the bundle and returns the upload target for its
	// zip payload.
	Register(ctx context.Context, bundle domain.AppBundle) (*domain.UploadParameters, error)

	// Upload posts the bundle zip to the pre-signed upload target.
	Upload(ctx context.Context, up domain.UploadParameters, zipPath string) error

	// CreateAlias points an alias at a bundle version.
	CreateAlias(ctx context.Context, bundleID string, alias domain.Alias) error

	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, bundleID string) error
}

// ActivityAPI is the remote activity administration surface.
type ActivityAPI interface {
	Create(ctx context.Context, activity domain.Activity) error
	CreateAlias(ctx context.Context, activityID, aliasID string, version int) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, activityID string) error
}

// ForgeAppAPI manages the app-level settings of the remote account.
type ForgeAppAPI interface {
	SetNickname(ctx context.Context, nickname string) error
}

// Logger defines the logging interface used throughout the toolkit.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	With(args ...interface{}) Logger
}
