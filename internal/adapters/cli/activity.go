package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forge-platform/dactl/internal/adapters/aps"
	"github.com/forge-platform/dactl/internal/core/domain"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Manage activities",
}

var activityCreateCmd = &cobra.Command{
	Use:   "create [id]",
	Short: "Create an activity and optionally an alias for it",
	Long: `Create an activity referencing the given app bundles. The activity
declares the toolkit's standard arguments: TaskParameters (optional string)
and PersonalAccessToken (required string). Unless --no-alias is set, an
alias is created pointing at the new version.`,
	Args: cobra.ExactArgs(1),
	RunE: runActivityCreate,
}

var activityAliasCmd = &cobra.Command{
	Use:   "alias [id]",
	Short: "Create an alias for an existing activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivityAlias,
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities",
	Args:  cobra.NoArgs,
	RunE:  runActivityList,
}

var activityDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an activity and all its versions and aliases",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivityDelete,
}

var (
	activityEngine       string
	activityAppBundles   []string
	activityDescription  string
	activityAliasID      string
	activityAliasVersion string
	activityNoAlias      bool
	activityPrintPayload bool
)

func init() {
	activityCmd.AddCommand(activityCreateCmd)
	activityCmd.AddCommand(activityAliasCmd)
	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityDeleteCmd)

	activityCreateCmd.Flags().StringVarP(&activityEngine, "engine", "e", "Autodesk.Fusion+Latest", "engine string for the activity")
	activityCreateCmd.Flags().StringArrayVarP(&activityAppBundles, "appbundle", "b", nil, "fully qualified app bundle to attach (repeatable)")
	activityCreateCmd.Flags().StringVar(&activityDescription, "description", "", "activity description")
	activityCreateCmd.Flags().StringVar(&activityAliasID, "alias-id", "my_current_version", "alias id to create")
	activityCreateCmd.Flags().StringVar(&activityAliasVersion, "alias-version", "1", "alias version to point to (integer)")
	activityCreateCmd.Flags().BoolVar(&activityNoAlias, "no-alias", false, "create the activity but skip alias creation")
	activityCreateCmd.Flags().BoolVar(&activityPrintPayload, "print-payload", false, "print the activity payload before sending")

	activityAliasCmd.Flags().StringVar(&activityAliasID, "alias-id", "my_current_version", "alias id to create")
	activityAliasCmd.Flags().StringVar(&activityAliasVersion, "alias-version", "1", "alias version to point to (integer)")
}

func runActivityCreate(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	activity := domain.Activity{
		ID:          args[0],
		Engine:      activityEngine,
		CommandLine: []string{},
		Parameters:  domain.DefaultActivityParameters(),
		AppBundles:  activityAppBundles,
		Settings:    map[string]interface{}{},
		Description: activityDescription,
	}

	if activityPrintPayload {
		payload, err := json.MarshalIndent(activity, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
	}

	activities := aps.NewActivityClient(newAPSClient())
	if err := activities.Create(cmd.Context(), activity); err != nil {
		return err
	}
	fmt.Printf("Activity %s created\n", args[0])

	if activityNoAlias {
		fmt.Println(mutedStyle.Render("Skipping alias creation (--no-alias)."))
		return nil
	}

	version, err := strconv.Atoi(activityAliasVersion)
	if err != nil {
		return fmt.Errorf("invalid alias version %q: %w", activityAliasVersion, err)
	}
	if err := activities.CreateAlias(cmd.Context(), args[0], activityAliasID, version); err != nil {
		return err
	}
	fmt.Printf("Alias %s -> version %d created for %s\n", activityAliasID, version, args[0])
	return nil
}

func runActivityAlias(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	version, err := strconv.Atoi(activityAliasVersion)
	if err != nil {
		return fmt.Errorf("invalid alias version %q: %w", activityAliasVersion, err)
	}

	activities := aps.NewActivityClient(newAPSClient())
	if err := activities.CreateAlias(cmd.Context(), args[0], activityAliasID, version); err != nil {
		return err
	}

	fmt.Printf("Alias %s -> version %d created for %s\n", activityAliasID, version, args[0])
	return nil
}

func runActivityList(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	activities := aps.NewActivityClient(newAPSClient())
	ids, err := activities.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		fmt.Println(mutedStyle.Render("(no activities)"))
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func runActivityDelete(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	activities := aps.NewActivityClient(newAPSClient())
	if err := activities.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Activity %s deleted\n", args[0])
	return nil
}
