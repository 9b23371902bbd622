package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forge-platform/dactl/internal/adapters/aps"
	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/services"
)

var workItemCmd = &cobra.Command{
	Use:     "workitem",
	Aliases: []string{"wi"},
	Short:   "Submit and inspect work items",
}

var workItemSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a work item from the parameter document",
	Long: `Submit a work item for the configured activity using the current
parameter document, without editing it first. Prints the work item id.`,
	Args: cobra.NoArgs,
	RunE: runWorkItemSubmit,
}

var workItemStatusCmd = &cobra.Command{
	Use:   "status [id]",
	Short: "Query the status of a work item once",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkItemStatus,
}

var workItemWatchCmd = &cobra.Command{
	Use:   "watch [id]",
	Short: "Poll a work item until it reaches a terminal state",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkItemWatch,
}

var (
	workItemFile     string
	workItemActivity string
	workItemWait     bool
	watchMaxAttempts int
)

func init() {
	workItemCmd.AddCommand(workItemSubmitCmd)
	workItemCmd.AddCommand(workItemStatusCmd)
	workItemCmd.AddCommand(workItemWatchCmd)

	workItemSubmitCmd.Flags().StringVar(&workItemFile, "file", "", "parameter document to submit (defaults to run.param_file)")
	workItemSubmitCmd.Flags().StringVar(&workItemActivity, "activity", "", "fully qualified activity id (defaults to run.activity_id)")
	workItemSubmitCmd.Flags().BoolVar(&workItemWait, "wait", false, "poll the work item to completion after submitting")
	workItemWatchCmd.Flags().IntVar(&watchMaxAttempts, "max-attempts", 0, "stop after this many polls (0 = poll forever)")
}

func runWorkItemSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := requireCredentials(); err != nil {
		return exitWith(ExitSubmitFailed, err)
	}

	path := workItemFile
	if path == "" {
		path = cfg.Run.ParamFile
	}
	activityID := workItemActivity
	if activityID == "" {
		activityID = cfg.Run.ActivityID
	}

	history, closeHistory := openHistory()
	defer closeHistory()

	store := services.NewParamStore(logger)
	workItems := aps.NewWorkItemClient(newAPSClient())
	submitter := services.NewSubmitter(workItems, store, history, logger)

	sub, err := submitter.Submit(ctx, services.SubmitOptions{
		ActivityID:          activityID,
		PersonalAccessToken: cfg.Run.PersonalAccessToken,
		DocumentPath:        path,
		ScriptFile:          cfg.Run.ScriptFile,
	})
	if err != nil {
		return exitWith(submitExitCode(err), err)
	}
	fmt.Println(sub.WorkItemID)

	if !workItemWait {
		return nil
	}

	poller := services.NewPoller(workItems, logger, services.PollPolicy{Interval: cfg.Run.PollInterval})
	item, err := poller.Wait(ctx, sub.WorkItemID)
	if item != nil {
		submitter.RecordStatus(ctx, sub, item.Status)
	}
	return reportWatchResult(item, err)
}

func runWorkItemStatus(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	workItems := aps.NewWorkItemClient(newAPSClient())
	item, err := workItems.Status(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Status: %s\n", item.Status)
	fmt.Println(string(item.Raw))
	return nil
}

func runWorkItemWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := requireCredentials(); err != nil {
		return err
	}

	history, closeHistory := openHistory()
	defer closeHistory()

	workItems := aps.NewWorkItemClient(newAPSClient())
	poller := services.NewPoller(workItems, logger, services.PollPolicy{
		Interval:    cfg.Run.PollInterval,
		MaxAttempts: watchMaxAttempts,
	})

	item, err := poller.Wait(ctx, args[0])
	if item != nil && history != nil {
		if sub, lookupErr := history.GetByWorkItemID(ctx, args[0]); lookupErr == nil {
			sub.MarkStatus(item.Status)
			if updateErr := history.Update(ctx, sub); updateErr != nil {
				logger.Warn("failed to update submission status", "error", updateErr)
			}
		}
	}
	return reportWatchResult(item, err)
}

// reportWatchResult prints the terminal outcome of a poll and maps it to an
// exit code.
func reportWatchResult(item *domain.WorkItem, err error) error {
	if err != nil {
		if errors.Is(err, services.ErrWorkItemFailed) && item != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Work item finished with status %s", item.Status)))
			fmt.Printf("Full status response: %s\n", string(item.Raw))
			return exitWith(ExitWorkItemFailed, err)
		}
		return err
	}
	fmt.Println(successStyle.Render("Work item completed successfully"))
	return nil
}
