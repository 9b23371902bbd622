package services

import (
	"context"
	"fmt"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
)

// DeployOptions describe one register-upload-alias flow.
type DeployOptions struct {
	Bundle       domain.AppBundle
	ZipPath      string
	AliasID      string
	AliasVersion string

	// SkipUpload registers the bundle and creates the alias without
	// uploading a payload.
	SkipUpload bool
}

// Deployer runs the app-bundle deployment flow: register the bundle, upload
// its zip to the returned endpoint, then point an alias at the new version.
type Deployer struct {
	bundles ports.AppBundleAPI
	logger  ports.Logger
}

// NewDeployer creates an app-bundle deployer.
func NewDeployer(bundles ports.AppBundleAPI, logger ports.Logger) *Deployer {
	if logger == nil {
		logger = &NopLogger{}
	}
	return &Deployer{bundles: bundles, logger: logger}
}

// Deploy runs the flow. The register step must yield upload parameters or
// the flow aborts; the upload and alias steps run in order afterwards.
func (d *Deployer) Deploy(ctx context.Context, opts DeployOptions) error {
	up, err := d.bundles.Register(ctx, opts.Bundle)
	if err != nil {
		return fmt.Errorf("register step: %w", err)
	}
	d.logger.Info("app bundle registered", "bundle_id", opts.Bundle.ID, "engine", opts.Bundle.Engine)

	if opts.SkipUpload {
		d.logger.Info("upload step skipped")
	} else {
		if err := d.bundles.Upload(ctx, *up, opts.ZipPath); err != nil {
			return fmt.Errorf("upload step: %w", err)
		}
	}

	alias := domain.Alias{ID: opts.AliasID, Version: opts.AliasVersion}
	if err := d.bundles.CreateAlias(ctx, opts.Bundle.ID, alias); err != nil {
		return fmt.Errorf("alias step: %w", err)
	}
	d.logger.Info("alias created", "alias_id", opts.AliasID, "version", opts.AliasVersion)
	return nil
}
