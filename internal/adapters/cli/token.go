package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forge-platform/dactl/internal/adapters/aps"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a fresh access token",
	Long: `Exchange the configured client credentials for a bearer token and
print it. Useful for driving the API with curl or other tooling.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func runToken(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	tokens := aps.NewAuthClient(cfg.API.BaseURL, cfg.Auth.ClientID, cfg.Auth.ClientSecret, cfg.Auth.Scope, logger)
	token, err := tokens.Token(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to mint token: %w", err)
	}

	fmt.Println(token)
	return nil
}
