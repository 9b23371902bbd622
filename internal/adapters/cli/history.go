package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect locally recorded submissions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded submissions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var (
	historyActivity string
	historyStatus   string
	historyLimit    int
)

func init() {
	historyCmd.AddCommand(historyListCmd)

	historyListCmd.Flags().StringVar(&historyActivity, "activity", "", "filter by activity id")
	historyListCmd.Flags().StringVar(&historyStatus, "status", "", "filter by status (pending, inprogress, success, failed, error)")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of submissions to show")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	history, closeHistory := openHistory()
	defer closeHistory()
	if history == nil {
		return fmt.Errorf("submission history is disabled or unavailable")
	}

	subs, err := history.List(cmd.Context(), ports.SubmissionFilter{
		ActivityID: historyActivity,
		Status:     domain.WorkItemStatus(historyStatus),
		Limit:      historyLimit,
	})
	if err != nil {
		return err
	}

	if len(subs) == 0 {
		fmt.Println(mutedStyle.Render("(no submissions recorded)"))
		return nil
	}

	fmt.Printf("%-36s  %-10s  %-19s  %s\n", "WORK ITEM", "STATUS", "SUBMITTED", "ACTIVITY")
	for _, sub := range subs {
		status := string(sub.Status)
		switch {
		case sub.Status.IsSuccess():
			status = successStyle.Render(status)
		case sub.Status.IsFailure():
			status = errorStyle.Render(status)
		}
		fmt.Printf("%-36s  %-10s  %-19s  %s\n",
			sub.WorkItemID,
			status,
			sub.CreatedAt.Format("2006-01-02 15:04:05"),
			sub.ActivityID,
		)
	}
	return nil
}
