package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store client credentials in the config file",
	Long: `Prompt for the APS client id and secret and write them to
~/.dactl/config.yaml. The secret is read without terminal echo.

Credentials supplied via DACTL_AUTH_CLIENT_ID / DACTL_AUTH_CLIENT_SECRET
always take precedence over the config file.`,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Client ID: ")
	clientID, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read client id: %w", err)
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("client id must not be empty")
	}

	fmt.Print("Client secret: ")
	secretBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read client secret: %w", err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return fmt.Errorf("client secret must not be empty")
	}

	dir, err := ensureConfigDir()
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	configPath := filepath.Join(dir, "config.yaml")

	// Rewrite only the auth section, keeping everything else as-is.
	doc := map[string]interface{}{}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse existing config: %w", err)
		}
	}

	auth, _ := doc["auth"].(map[string]interface{})
	if auth == nil {
		auth = map[string]interface{}{}
	}
	auth["client_id"] = clientID
	auth["client_secret"] = secret
	doc["auth"] = auth

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Println(successStyle.Render("Credentials saved to " + configPath))
	return nil
}
