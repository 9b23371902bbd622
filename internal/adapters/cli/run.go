package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forge-platform/dactl/internal/adapters/aps"
	"github.com/forge-platform/dactl/internal/core/services"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Update the parameter document and submit a work item",
	Long: `Rewrite the parameter document with the given values, then submit a
work item for the configured activity and poll it to completion.

The parameters map is replaced wholesale: entries not listed with -p are
dropped. Top-level keys set with -s are written verbatim. Without any
-p/-s flags the configured run defaults apply.

Exit codes: 0 success, 2 document update failed, 3 submission failed,
4 non-JSON creation response, 5 creation response without a work item id,
6 work item finished in a failure state.`,
	Example: `  dactl run -p Width=45
  dactl run -p Width=30 --no-run
  dactl run --file path/to/parameters.json -p Depth=25 -s fileURN=urn:...`,
	RunE: runRun,
}

var (
	runFile     string
	runParams   []string
	runSets     []string
	runNoRun    bool
	runTSFile   string
	runNoBackup bool
)

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "parameter document to edit (defaults to run.param_file)")
	runCmd.Flags().StringArrayVarP(&runParams, "param", "p", nil, "parameter update NAME=VALUE (repeatable)")
	runCmd.Flags().StringArrayVarP(&runSets, "set", "s", nil, "top-level document update KEY=VALUE (repeatable)")
	runCmd.Flags().BoolVar(&runNoRun, "no-run", false, "only update the document; skip submission")
	runCmd.Flags().StringVar(&runTSFile, "ts-file", "", "downstream script variant to target (defaults to run.script_file)")
	runCmd.Flags().BoolVar(&runNoBackup, "no-backup", false, "skip writing the .bak backup")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := runFile
	if path == "" {
		path = cfg.Run.ParamFile
	}
	scriptFile := runTSFile
	if scriptFile == "" {
		scriptFile = cfg.Run.ScriptFile
	}

	params := parseKeyValues(runParams, "--param")
	other := parseKeyValues(runSets, "--set")

	// Without any CLI updates the configured defaults apply, mirroring
	// the editable defaults block of the original toolkit.
	if len(params) == 0 && len(other) == 0 {
		for name, value := range cfg.Run.DefaultParameters {
			params[name] = value
		}
		for key, value := range cfg.Run.DefaultFields {
			other[key] = value
		}
	}

	store := services.NewParamStore(logger)
	updated, err := store.ApplyUpdates(path, params, other, !runNoBackup)
	if err != nil {
		return exitWith(ExitUpdateFailed, fmt.Errorf("failed to update document: %w", err))
	}
	fmt.Printf("Updated %s (%d parameters, %d fields)\n", updated, len(params), len(other))

	if runNoRun {
		fmt.Println(mutedStyle.Render("--no-run supplied: skipping submission."))
		return nil
	}

	if err := requireCredentials(); err != nil {
		return exitWith(ExitSubmitFailed, err)
	}

	history, closeHistory := openHistory()
	defer closeHistory()

	client := newAPSClient()
	workItems := aps.NewWorkItemClient(client)
	submitter := services.NewSubmitter(workItems, store, history, logger)

	sub, err := submitter.Submit(ctx, services.SubmitOptions{
		ActivityID:          cfg.ActivityFor(scriptFile),
		PersonalAccessToken: cfg.Run.PersonalAccessToken,
		DocumentPath:        path,
		ScriptFile:          scriptFile,
	})
	if err != nil {
		return exitWith(submitExitCode(err), err)
	}
	fmt.Printf("Work item created: %s\n", sub.WorkItemID)

	poller := services.NewPoller(workItems, logger, services.PollPolicy{
		Interval: cfg.Run.PollInterval,
	})

	item, err := poller.Wait(ctx, sub.WorkItemID)
	if item != nil {
		submitter.RecordStatus(ctx, sub, item.Status)
	}
	if err != nil {
		if errors.Is(err, services.ErrWorkItemFailed) {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Work item finished with status %s", item.Status)))
			fmt.Printf("Full status response: %s\n", string(item.Raw))
			return exitWith(ExitWorkItemFailed, err)
		}
		return exitWith(ExitSubmitFailed, err)
	}

	fmt.Println(successStyle.Render("Work item completed successfully"))
	return nil
}

// submitExitCode maps a submission error to its process exit code.
func submitExitCode(err error) int {
	switch {
	case errors.Is(err, aps.ErrNonJSONResponse):
		return ExitNonJSONResponse
	case errors.Is(err, aps.ErrMissingWorkItemID):
		return ExitMissingWorkItem
	default:
		return ExitSubmitFailed
	}
}
