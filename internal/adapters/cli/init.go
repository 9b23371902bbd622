package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dactl configuration",
	Long: `Create the dactl configuration directory and a commented default
configuration file:
  ~/.dactl/config.yaml - main configuration
  ~/.dactl/history.db  - submission history (created on first run)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := ensureConfigDir()
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	fmt.Printf("✓ Created %s\n", dir)

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(defaultConfigFile), 0600); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		fmt.Printf("✓ Created %s\n", configPath)
	} else {
		fmt.Printf("• Config file already exists: %s\n", configPath)
	}

	fmt.Println("\ndactl initialized.")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'dactl configure' to store your client credentials")
	fmt.Println("  2. Edit ~/.dactl/config.yaml to set your activity and parameter file")
	fmt.Println("  3. Run 'dactl run -p Name=Value' to submit a work item")

	return nil
}

const defaultConfigFile = `# dactl configuration

core:
  log_level: info  # debug, info, warn, error
  log_json: false

# Client credentials. Prefer DACTL_AUTH_CLIENT_ID / DACTL_AUTH_CLIENT_SECRET
# environment variables (or a local .env file) over storing them here.
auth:
  client_id: ""
  client_secret: ""
  # scope defaults to: code:all bucket:create bucket:read data:create data:write data:read

api:
  base_url: https://developer.api.autodesk.com
  da_path: da/us-east/v3

run:
  # Fully qualified activity, e.g. mynickname.MyActivity+my_current_version
  activity_id: ""
  personal_access_token: ""
  param_file: parameters.json
  poll_interval: 3s
  # Map script file names to activity ids for --ts-file:
  # script_activities:
  #   sample.ts: mynickname.SampleActivity+my_current_version
  # Defaults applied when 'dactl run' is invoked without -p/-s flags:
  # default_parameters:
  #   Width: "37"
  # default_fields:
  #   fileURN: urn:adsk...

history:
  enabled: true
`
