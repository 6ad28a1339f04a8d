package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"evalgo.org/dumppublisher/internal/client"
	"evalgo.org/dumppublisher/internal/config"
	"evalgo.org/dumppublisher/internal/dataset"
	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/export"
	"evalgo.org/dumppublisher/internal/logging"
	"evalgo.org/dumppublisher/internal/metrics"
	"evalgo.org/dumppublisher/internal/operations"
	"evalgo.org/dumppublisher/internal/tasks"
)

// app holds the components shared by the commands.
type app struct {
	cfg        *config.Config
	logger     *logrus.Logger
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	clients    *client.Manager
	engine     *export.Engine
	publisher  *dataset.Publisher
	taskStore  *tasks.SPARQLStore
	operations *operations.Registry
	controller *tasks.Controller
}

// newApp wires the export pipeline from cfg.
func newApp(cfg *config.Config, logger *logrus.Logger) *app {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	clients := client.NewManager(cfg.SPARQL.Endpoint, client.Options{
		UpdateEndpoint: cfg.SPARQL.UpdateEndpoint,
		Sudo:           cfg.SPARQL.Sudo,
		Retries:        cfg.SPARQL.Retries,
		Timeout:        cfg.SPARQL.Timeout,
		Debug:          cfg.Service.Debug,
	}, logging.Component(logger, "sparql"))

	engine := export.NewEngine(
		func(endpoint string) export.Source {
			return export.NewSPARQLSource(clients.GetClient(endpoint))
		},
		export.Options{
			ShareDir:     cfg.Export.ShareDir,
			RelativePath: cfg.Export.RelativePath,
			BatchSize:    cfg.Export.BatchSize,
		},
		logging.Component(logger, "export"),
		m,
	)

	publisher := dataset.NewPublisher(
		dataset.NewSPARQLStore(clients.Default(), cfg.Dataset.Graph, cfg.Dataset.FilesGraph),
		dataset.Options{
			Subject:  cfg.Dataset.Subject,
			Type:     cfg.Dataset.Type,
			Title:    cfg.Dataset.Title,
			Creator:  cfg.Service.CreatorURI,
			ShareDir: cfg.Export.ShareDir,
			LockDir:  cfg.DumpDir(),
		},
		logging.Component(logger, "dataset"),
		m,
	)

	taskStore := tasks.NewSPARQLStore(clients.Default(), tasks.StoreOptions{
		JobsGraph:   cfg.Tasks.JobsGraph,
		ServiceName: cfg.Service.Name,
		CreatorURI:  cfg.Service.CreatorURI,
	})

	ops := operations.NewRegistry()
	ops.Register(cfg.Tasks.Operation, operations.NewDumpFileHandler(
		engine,
		publisher,
		exportRequest(cfg),
		logging.Component(logger, "operations"),
	))

	controller := tasks.NewController(
		taskStore,
		ops,
		tasks.ControllerOptions{UpdateJobStatus: cfg.Tasks.UpdateJobStatus},
		logging.Component(logger, "tasks"),
		m,
	)

	return &app{
		cfg:        cfg,
		logger:     logger,
		registry:   reg,
		metrics:    m,
		clients:    clients,
		engine:     engine,
		publisher:  publisher,
		taskStore:  taskStore,
		operations: ops,
		controller: controller,
	}
}

func exportRequest(cfg *config.Config) domain.ExportRequest {
	return domain.ExportRequest{
		Graph:               cfg.Export.GraphToDump,
		FileBaseName:        cfg.Export.FileBaseName,
		PublicationEndpoint: cfg.Export.PublicationEndpoint,
		BatchSize:           cfg.Export.BatchSize,
	}
}
