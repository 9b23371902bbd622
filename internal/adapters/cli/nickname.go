package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forge-platform/dactl/internal/adapters/aps"
)

var nicknameCmd = &cobra.Command{
	Use:   "nickname",
	Short: "Manage the app nickname",
}

var nicknameSetCmd = &cobra.Command{
	Use:   "set [nickname]",
	Short: "Assign the app nickname",
	Long: `Assign the nickname used as the owner prefix in fully qualified
bundle and activity ids. The service only accepts this while the app has no
bundles or activities registered.`,
	Args: cobra.ExactArgs(1),
	RunE: runNicknameSet,
}

func init() {
	nicknameCmd.AddCommand(nicknameSetCmd)
}

func runNicknameSet(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	forgeApps := aps.NewForgeAppClient(newAPSClient())
	if err := forgeApps.SetNickname(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Nickname set to %s\n", args[0])
	return nil
}
