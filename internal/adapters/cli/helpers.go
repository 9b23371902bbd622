package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/forge-platform/dactl/internal/adapters/aps"
	"github.com/forge-platform/dactl/internal/adapters/storage"
	"github.com/forge-platform/dactl/internal/core/ports"
)

// parseKeyValues splits repeatable NAME=VALUE flag entries into a map.
// Malformed entries (no '=') are skipped with a warning, never fatal.
func parseKeyValues(entries []string, flagName string) map[string]interface{} {
	out := make(map[string]interface{}, len(entries))
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			fmt.Fprintln(os.Stderr, warningStyle.Render(fmt.Sprintf("ignoring malformed %s entry: %s", flagName, entry)))
			continue
		}
		out[name] = value
	}
	return out
}

// newAPSClient builds the shared authenticated Design Automation client
// from the loaded configuration.
func newAPSClient() *aps.Client {
	tokens := aps.NewAuthClient(cfg.API.BaseURL, cfg.Auth.ClientID, cfg.Auth.ClientSecret, cfg.Auth.Scope, logger)
	endpoints := aps.Endpoints{
		BaseURL:              cfg.API.BaseURL,
		DesignAutomationPath: cfg.API.DesignAutomationPath,
	}
	return aps.NewClient(tokens, endpoints, logger)
}

// openHistory opens the local submission history. A nil repository is
// returned when history is disabled or the database cannot be opened;
// commands treat that as "no bookkeeping" rather than failing.
func openHistory() (ports.SubmissionRepository, func()) {
	if !cfg.History.Enabled {
		return nil, func() {}
	}

	dbCfg := storage.DefaultConfig(cfg.Core.DataDir)
	if cfg.History.Path != "" {
		dbCfg.Path = cfg.History.Path
	}

	db, err := storage.New(dbCfg)
	if err != nil {
		logger.Warn("submission history unavailable", "error", err)
		return nil, func() {}
	}
	return storage.NewSubmissionRepository(db), func() { _ = db.Close() }
}
