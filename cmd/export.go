package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/export"
	"evalgo.org/dumppublisher/internal/helpers"
	"evalgo.org/dumppublisher/internal/logging"
)

// exportResult is printed by the export command.
type exportResult struct {
	File    *domain.DumpFile `json:"file,omitempty"`
	Dataset *domain.Dataset  `json:"dataset,omitempty"`
	Message string           `json:"message"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a dump file once",
	Long: `Export the configured graph to a new dump file without going through a task.

By default the file is also published as the newest dataset version. Use
--publish=false to only write the file.

Examples:
  # Dump a graph and publish it
  dump-publisher export --graph-to-dump http://mu.semte.ch/graphs/public \
    --file-basename public --dcat-dataset-subject http://data.lblod.info/datasets/public

  # Only write the file
  dump-publisher export --publish=false`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Bool("publish", true, "Publish the dump file as a new dataset version")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	a := newApp(cfg, logger)
	log := logging.Component(logger, "export")
	ctx := cmd.Context()

	dump, err := a.engine.Export(ctx, exportRequest(cfg))
	if err != nil {
		var exportErr *export.Error
		if errors.As(err, &exportErr) {
			cleanup := helpers.NewFileCleanup(log)
			cleanup.Add(exportErr.TempPath)
			_ = cleanup.Cleanup()
		}
		return err
	}

	result := exportResult{File: dump, Message: "Dump file created"}
	if dump == nil {
		result.Message = "Nothing to export"
	} else if publish, _ := cmd.Flags().GetBool("publish"); publish {
		ds, err := a.publisher.Publish(ctx, dump)
		if err != nil {
			return err
		}
		result.Dataset = ds
		result.Message = "Dump file created and published"
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
