// Package config provides typed configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all toolkit configuration.
type Config struct {
	Core    CoreConfig    `mapstructure:"core"`
	Auth    AuthConfig    `mapstructure:"auth"`
	API     APIConfig     `mapstructure:"api"`
	Run     RunConfig     `mapstructure:"run"`
	History HistoryConfig `mapstructure:"history"`
}

// CoreConfig holds core application settings.
type CoreConfig struct {
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// AuthConfig holds the client credentials for the token endpoint. The id
// and secret normally come from the environment or a local .env file rather
// than the config file.
type AuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Scope        string `mapstructure:"scope"`
}

// APIConfig locates the remote service.
type APIConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	DesignAutomationPath string `mapstructure:"da_path"`
}

// RunConfig holds the defaults for the parameter-update-and-submit flow.
type RunConfig struct {
	// ActivityID is the fully qualified activity a run instantiates when
	// no script-specific override matches.
	ActivityID string `mapstructure:"activity_id"`

	// PersonalAccessToken is passed through to the remote script.
	PersonalAccessToken string `mapstructure:"personal_access_token"`

	// ParamFile is the default parameter document location.
	ParamFile string `mapstructure:"param_file"`

	// ScriptFile names the default downstream script variant.
	ScriptFile string `mapstructure:"script_file"`

	// ScriptActivities maps script file names to activity ids, so
	// --ts-file can target a specific activity variant.
	ScriptActivities map[string]string `mapstructure:"script_activities"`

	// PollInterval is the fixed delay between status polls.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// DefaultParameters and DefaultFields are applied when a run is
	// invoked without any -p/-s flags, mirroring the editable defaults
	// block of the original toolkit.
	DefaultParameters map[string]string `mapstructure:"default_parameters"`
	DefaultFields     map[string]string `mapstructure:"default_fields"`
}

// HistoryConfig controls the local submission history.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ActivityFor resolves the activity id for a script file name, falling back
// to the run-level default.
func (c *Config) ActivityFor(scriptFile string) string {
	if scriptFile != "" {
		if id, ok := c.Run.ScriptActivities[scriptFile]; ok && id != "" {
			return id
		}
	}
	return c.Run.ActivityID
}

// Load loads configuration from defaults, an optional config file, a local
// .env file, and DACTL_-prefixed environment variables, in increasing
// precedence.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Client credentials commonly live in a local .env file.
	_ = godotenv.Load()

	v.SetEnvPrefix("DACTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.AddConfigPath(defaultConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			// No config file is fine, defaults apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(cfg.Core.DataDir, "history.db")
	}
	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("core.data_dir", defaultConfigDir())
	v.SetDefault("core.log_level", "info")
	v.SetDefault("core.log_json", false)

	v.SetDefault("auth.scope", "code:all bucket:create bucket:read data:create data:write data:read")

	v.SetDefault("api.base_url", "https://developer.api.autodesk.com")
	v.SetDefault("api.da_path", "da/us-east/v3")

	v.SetDefault("run.param_file", "parameters.json")
	v.SetDefault("run.poll_interval", 3*time.Second)

	v.SetDefault("history.enabled", true)
}

// bindEnvVars maps the secret-bearing keys explicitly so they resolve even
// before Unmarshal sees them in any file.
func bindEnvVars(v *viper.Viper) {
	keys := []string{
		"auth.client_id",
		"auth.client_secret",
		"auth.scope",
		"run.personal_access_token",
		"run.activity_id",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// defaultConfigDir returns ~/.dactl, or the working directory when the home
// directory cannot be determined.
func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".dactl")
}
