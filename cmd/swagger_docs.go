package cmd

// This file contains Swagger/OpenAPI documentation annotations for all API endpoints.
// The actual handler implementations are in internal/server.

// @title Delta Producer Dump File Publisher API
// @version 1.0
// @description Exports a graph to versioned Turtle dump files and publishes them as DCAT datasets.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /

// Greeting
// @Summary Greeting
// @Description Returns a greeting naming the service
// @Tags Health
// @Produce plain
// @Success 200 {string} string "Greeting"
// @Router / [get]
func swaggerRoot() {}

// Health endpoint
// @Summary Health check
// @Description Returns the health status of the service
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "status: healthy"
// @Router /health [get]
func swaggerHealthCheck() {}

// Delta webhook
// @Summary Delta webhook
// @Description Receives delta-notifier change sets and queues every task that was given the scheduled status. The response does not wait for the dump file.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param delta body []delta.ChangeSet true "Delta message"
// @Success 200 {object} server.DeltaResponse "Tasks accepted"
// @Failure 400 {object} server.ErrorResponse "Malformed delta"
// @Router /delta [post]
func swaggerDelta() {}

// Delta webhook alias
// @Summary Delta webhook
// @Description Alias of /delta
// @Tags Tasks
// @Accept json
// @Produce json
// @Param delta body []delta.ChangeSet true "Delta message"
// @Success 200 {object} server.DeltaResponse "Tasks accepted"
// @Failure 400 {object} server.ErrorResponse "Malformed delta"
// @Router /produce-dump-file [post]
func swaggerProduceDumpFile() {}

// Latest dump file
// @Summary Latest dump file
// @Description Returns the current dataset version with its distribution and dump file
// @Tags Datasets
// @Produce json
// @Success 200 {object} domain.Dataset "Current dataset"
// @Failure 404 {object} server.ErrorResponse "No dump file published yet"
// @Failure 500 {object} server.ErrorResponse "Triplestore error"
// @Router /latest-dump-file [get]
func swaggerLatestDumpFile() {}
