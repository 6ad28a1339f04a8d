// Package main provides the entry point for the delta producer dump file
// publisher.
//
// The service listens for delta notifications, and when a dump file creation
// task is scheduled it exports the configured graph to a Turtle file and
// publishes that file as a new version of a DCAT dataset.
//
// Usage:
//
//	dump-publisher serve [flags]
//	dump-publisher export [flags]
//	dump-publisher run-task <task-uri> [flags]
//
// Environment Variables:
//   - GRAPH_TO_DUMP: Graph exported to the dump file (required)
//   - FILE_BASENAME: Base name of the dump files (required)
//   - DCAT_DATASET_SUBJECT: Subject of the published dataset (required)
//   - MU_SPARQL_ENDPOINT: SPARQL endpoint (default: http://database:8890/sparql)
//   - PORT: HTTP server port (default: 80)
package main

import (
	"os"

	"evalgo.org/dumppublisher/cmd"
)

// main is the application entry point that delegates to the cobra command structure.
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
