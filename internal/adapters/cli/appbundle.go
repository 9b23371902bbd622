package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forge-platform/dactl/internal/adapters/aps"
	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/services"
)

var appBundleCmd = &cobra.Command{
	Use:     "appbundle",
	Aliases: []string{"bundle"},
	Short:   "Manage app bundles",
}

var appBundleRegisterCmd = &cobra.Command{
	Use:   "register [id]",
	Short: "Register an app bundle, upload its zip, and create an alias",
	Long: `Run the full deployment flow: register the bundle, upload the zip to
the endpoint returned by the registration, and point an alias at the new
version. Use --no-upload to register and alias without a payload.`,
	Args: cobra.ExactArgs(1),
	RunE: runAppBundleRegister,
}

var appBundleAliasCmd = &cobra.Command{
	Use:   "alias [id]",
	Short: "Create an alias for an existing app bundle",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppBundleAlias,
}

var appBundleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List app bundles",
	Args:  cobra.NoArgs,
	RunE:  runAppBundleList,
}

var appBundleDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an app bundle and all its versions and aliases",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppBundleDelete,
}

var (
	bundleZipPath      string
	bundleEngine       string
	bundleDescription  string
	bundleAliasID      string
	bundleAliasVersion string
	bundleNoUpload     bool
)

func init() {
	appBundleCmd.AddCommand(appBundleRegisterCmd)
	appBundleCmd.AddCommand(appBundleAliasCmd)
	appBundleCmd.AddCommand(appBundleListCmd)
	appBundleCmd.AddCommand(appBundleDeleteCmd)

	appBundleRegisterCmd.Flags().StringVarP(&bundleZipPath, "zip", "z", "", "path to the app bundle zip to upload")
	appBundleRegisterCmd.Flags().StringVarP(&bundleEngine, "engine", "e", "Autodesk.Fusion+Latest", "engine the bundle targets")
	appBundleRegisterCmd.Flags().StringVar(&bundleDescription, "description", "", "bundle description")
	appBundleRegisterCmd.Flags().StringVar(&bundleAliasID, "alias-id", "my_current_version", "alias id to create")
	appBundleRegisterCmd.Flags().StringVar(&bundleAliasVersion, "alias-version", "1", "alias version to point to")
	appBundleRegisterCmd.Flags().BoolVar(&bundleNoUpload, "no-upload", false, "skip the upload step (register + alias only)")

	appBundleAliasCmd.Flags().StringVar(&bundleAliasID, "alias-id", "my_current_version", "alias id to create")
	appBundleAliasCmd.Flags().StringVar(&bundleAliasVersion, "alias-version", "1", "alias version to point to")
}

func runAppBundleRegister(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}
	if !bundleNoUpload && bundleZipPath == "" {
		return fmt.Errorf("--zip is required unless --no-upload is set")
	}

	bundles := aps.NewAppBundleClient(newAPSClient())
	deployer := services.NewDeployer(bundles, logger)

	err := deployer.Deploy(cmd.Context(), services.DeployOptions{
		Bundle: domain.AppBundle{
			ID:          args[0],
			Engine:      bundleEngine,
			Description: bundleDescription,
		},
		ZipPath:      bundleZipPath,
		AliasID:      bundleAliasID,
		AliasVersion: bundleAliasVersion,
		SkipUpload:   bundleNoUpload,
	})
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("App bundle %s deployed (alias %s -> version %s)", args[0], bundleAliasID, bundleAliasVersion)))
	return nil
}

func runAppBundleAlias(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	bundles := aps.NewAppBundleClient(newAPSClient())
	alias := domain.Alias{ID: bundleAliasID, Version: bundleAliasVersion}
	if err := bundles.CreateAlias(cmd.Context(), args[0], alias); err != nil {
		return err
	}

	fmt.Printf("Alias %s -> version %s created for %s\n", bundleAliasID, bundleAliasVersion, args[0])
	return nil
}

func runAppBundleList(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	bundles := aps.NewAppBundleClient(newAPSClient())
	ids, err := bundles.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		fmt.Println(mutedStyle.Render("(no app bundles)"))
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func runAppBundleDelete(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	bundles := aps.NewAppBundleClient(newAPSClient())
	if err := bundles.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("App bundle %s deleted\n", args[0])
	return nil
}
