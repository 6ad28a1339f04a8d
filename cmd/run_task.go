package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"evalgo.org/dumppublisher/internal/config"
	"evalgo.org/dumppublisher/internal/helpers"
)

// taskResult is printed by the run-task command.
type taskResult struct {
	Task   string                 `json:"task"`
	Result string                 `json:"result"`
	Status string                 `json:"status,omitempty"`
	Reason string                 `json:"reason,omitempty"`
	Output map[string]interface{} `json:"output,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

var runTaskCmd = &cobra.Command{
	Use:   "run-task <task-uri>",
	Short: "Execute a single dump file creation task",
	Long: `Load the task from the triplestore and run it in the foreground.

The task goes through the same lifecycle as in the service: it must be
scheduled and carry the configured task operation, it is marked busy while
the dump file is written and ends as success or failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runTask,
}

func init() {
	runTaskCmd.Flags().Bool(config.KeyUpdateJobStatus, false, "Also set the final status on the parent job")
	rootCmd.AddCommand(runTaskCmd)
}

func runTask(cmd *cobra.Command, args []string) error {
	taskURI := args[0]
	if err := helpers.ValidateURI("task", taskURI); err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	a := newApp(cfg, logger)

	outcome, err := a.controller.Execute(cmd.Context(), taskURI)
	if err != nil {
		return err
	}

	result := taskResult{
		Task:   outcome.Task,
		Result: outcome.Result,
		Status: string(outcome.Status),
		Reason: outcome.Reason,
		Output: outcome.Output,
	}
	if outcome.Err != nil {
		result.Error = outcome.Err.Error()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
