package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forge-platform/dactl/internal/core/services"
)

var paramCmd = &cobra.Command{
	Use:   "param",
	Short: "Edit the parameter document",
	Long: `Edit the JSON parameter document without submitting anything.

'param set' merges a single entry, preserving all others. To replace the
parameters wholesale, use 'dactl run --no-run' with -p flags.`,
}

var paramSetCmd = &cobra.Command{
	Use:   "set [name] [value]",
	Short: "Set a single parameter, preserving the rest",
	Args:  cobra.ExactArgs(2),
	RunE:  runParamSet,
}

var paramShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current parameter document",
	Args:  cobra.NoArgs,
	RunE:  runParamShow,
}

var (
	paramFile     string
	paramNoBackup bool
)

func init() {
	paramCmd.AddCommand(paramSetCmd)
	paramCmd.AddCommand(paramShowCmd)

	paramCmd.PersistentFlags().StringVar(&paramFile, "file", "", "parameter document to edit (defaults to run.param_file)")
	paramSetCmd.Flags().BoolVar(&paramNoBackup, "no-backup", false, "skip writing the .bak backup")
}

func paramDocumentPath() string {
	if paramFile != "" {
		return paramFile
	}
	return cfg.Run.ParamFile
}

func runParamSet(cmd *cobra.Command, args []string) error {
	name, value := args[0], args[1]

	store := services.NewParamStore(logger)
	path, err := store.UpdateParameter(paramDocumentPath(), name, value, !paramNoBackup)
	if err != nil {
		return exitWith(ExitUpdateFailed, err)
	}

	fmt.Printf("Updated %s: %s = %s\n", path, name, value)
	return nil
}

func runParamShow(cmd *cobra.Command, args []string) error {
	store := services.NewParamStore(logger)
	doc, err := store.Load(paramDocumentPath())
	if err != nil {
		return exitWith(ExitUpdateFailed, err)
	}

	for _, key := range doc.FieldKeys() {
		fmt.Printf("%s: %v\n", key, doc.Fields[key])
	}
	fmt.Println("parameters:")
	for name, value := range doc.Parameters {
		fmt.Printf("  %s = %s\n", name, value)
	}
	return nil
}
