package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"evalgo.org/dumppublisher/internal/config"
	"evalgo.org/dumppublisher/internal/logging"
	"evalgo.org/dumppublisher/internal/server"
	"evalgo.org/dumppublisher/internal/tasks"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dump file publisher service",
	Long: `Start the webhook service.

The service receives delta-notifier messages on POST /delta. Every task that
is given the scheduled status and carries the configured task operation is
queued and handled in the background, one at a time:

  1. the task is marked busy
  2. the configured graph is exported to a new Turtle dump file
  3. the file is published as the newest dataset version
  4. the task is marked success, or failed with the error attached

Environment Variables:
  - GRAPH_TO_DUMP: Graph exported to the dump file (required)
  - FILE_BASENAME: Base name of the dump files (required)
  - DCAT_DATASET_SUBJECT: Subject of the published dataset (required)
  - PORT: Port to listen on (default: 80)
  - QUEUE_SIZE: Maximum number of waiting tasks (default: 16)
  - SHUTDOWN_TIMEOUT: Time to wait for the running task on shutdown (default: 30s)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.IntP(config.KeyPort, "p", config.DefaultPort, "Port to listen on")
	flags.Int(config.KeyQueueSize, config.DefaultQueueSize, "Maximum number of waiting tasks")
	flags.Duration(config.KeyShutdownTimeout, 30*time.Second, "Time to wait for the running task on shutdown")
	flags.Bool(config.KeyUpdateJobStatus, false, "Also set the final status on the parent job")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	a := newApp(cfg, logger)
	log := logging.Component(logger, "service")

	log.WithFields(logrus.Fields{
		"graph":      cfg.Export.GraphToDump,
		"subject":    cfg.Dataset.Subject,
		"dump_dir":   cfg.DumpDir(),
		"endpoint":   cfg.SPARQL.Endpoint,
		"operations": a.operations.Operations(),
		"port":       cfg.Service.Port,
	}).Info("configuration loaded")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := tasks.NewDispatcher(a.controller, a.taskStore, cfg.Tasks.QueueSize, logging.Component(logger, "dispatcher"), a.metrics)
	dispatcher.Start(ctx)

	srv := server.New(server.Options{
		ServiceName: cfg.Service.Name,
		Gatherer:    a.registry,
	}, dispatcher, a.taskStore, a.publisher, logging.Component(logger, "http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(cfg.Service.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down service")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Service.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := dispatcher.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	log.Info("service is ready")
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("service stopped with error")
		return err
	}
	log.Info("service stopped")
	return nil
}
