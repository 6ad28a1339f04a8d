// Package config loads the service configuration from flags, environment
// variables and an optional config file through viper.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/helpers"
)

// Configuration keys
const (
	KeyGraphToDump         = "graph-to-dump"
	KeyFileBaseName        = "file-basename"
	KeyDatasetSubject      = "dcat-dataset-subject"
	KeyDatasetType         = "dcat-dataset-type"
	KeyDatasetTitle        = "dataset-title"
	KeyRelativePath        = "relative-file-path"
	KeyShareDir            = "share-dir"
	KeyBatchSize           = "batch-size"
	KeyTaskOperation       = "task-operation"
	KeyFilesGraph          = "files-graph"
	KeyDatasetGraph        = "dataset-graph"
	KeyJobsGraph           = "jobs-graph"
	KeyServiceName         = "service-name"
	KeyCreatorURI          = "creator-uri"
	KeySPARQLEndpoint      = "sparql-endpoint"
	KeyUpdateEndpoint      = "update-endpoint"
	KeyPublicationEndpoint = "publication-endpoint"
	KeySudo                = "sudo"
	KeySPARQLRetries       = "sparql-retries"
	KeySPARQLTimeout       = "sparql-timeout"
	KeyPort                = "port"
	KeyLogLevel            = "log-level"
	KeyLogFormat           = "log-format"
	KeyDebug               = "debug"
	KeyQueueSize           = "queue-size"
	KeyShutdownTimeout     = "shutdown-timeout"
	KeyUpdateJobStatus     = "update-job-status"
)

// Defaults
const (
	DefaultTaskOperation = "http://redpencil.data.gift/id/jobs/concept/TaskOperation/deltas/deltaDumpFileCreation"
	DefaultPublicGraph   = "http://mu.semte.ch/graphs/public"
	DefaultJobsGraph     = "http://mu.semte.ch/graphs/system/jobs"
	DefaultServiceName   = "delta-producer-dump-file-publisher"
	DefaultCreatorURI    = "http://lblod.data.gift/services/delta-producer-dump-file-publisher"
	DefaultDatasetType   = "http://data.lblod.info/dataset-types/delta-producer-dump"
	DefaultDatasetTitle  = "Delta producer cache graph dump"
	DefaultRelativePath  = "delta-producer-dumps"
	DefaultShareDir      = "/share"
	DefaultSPARQL        = "http://database:8890/sparql"
	DefaultBatchSize     = 1000
	DefaultPort          = 80
	DefaultQueueSize     = 16
)

// legacyEnv maps keys to the environment names used by existing deployments.
var legacyEnv = map[string]string{
	KeyGraphToDump:         "GRAPH_TO_DUMP",
	KeyFileBaseName:        "FILE_BASENAME",
	KeyDatasetSubject:      "DCAT_DATASET_SUBJECT",
	KeyDatasetType:         "DCAT_DATASET_TYPE",
	KeyDatasetTitle:        "DATASET_TITLE",
	KeyRelativePath:        "RELATIVE_FILE_PATH",
	KeyShareDir:            "SHARE_DIR",
	KeyBatchSize:           "EXPORT_TTL_BATCH_SIZE",
	KeyTaskOperation:       "DUMP_FILE_CREATION_TASK_OPERATION",
	KeyFilesGraph:          "FILES_GRAPH",
	KeyDatasetGraph:        "DCAT_DATASET_GRAPH",
	KeyJobsGraph:           "JOBS_GRAPH",
	KeyServiceName:         "SERVICE_NAME",
	KeyCreatorURI:          "ERROR_CREATOR_URI",
	KeySPARQLEndpoint:      "MU_SPARQL_ENDPOINT",
	KeyUpdateEndpoint:      "MU_SPARQL_UPDATEPOINT",
	KeyPublicationEndpoint: "PUBLICATION_ENDPOINT",
	KeySudo:                "SPARQL_SUDO",
	KeySPARQLRetries:       "SPARQL_RETRIES",
	KeySPARQLTimeout:       "SPARQL_TIMEOUT",
	KeyPort:                "PORT",
	KeyLogLevel:            "LOG_LEVEL",
	KeyLogFormat:           "LOG_FORMAT",
	KeyDebug:               "DEBUG",
	KeyQueueSize:           "QUEUE_SIZE",
	KeyShutdownTimeout:     "SHUTDOWN_TIMEOUT",
	KeyUpdateJobStatus:     "UPDATE_JOB_STATUS",
}

// Export configures the export engine.
type Export struct {
	GraphToDump         string
	FileBaseName        string
	PublicationEndpoint string
	BatchSize           int
	ShareDir            string
	RelativePath        string
}

// Dataset configures the dataset publisher.
type Dataset struct {
	Subject    string
	Type       string
	Title      string
	Graph      string
	FilesGraph string
}

// Tasks configures the task controller and dispatcher.
type Tasks struct {
	Operation       string
	JobsGraph       string
	UpdateJobStatus bool
	QueueSize       int
}

// SPARQL configures the triplestore clients.
type SPARQL struct {
	Endpoint       string
	UpdateEndpoint string
	Sudo           bool
	Retries        int
	Timeout        time.Duration
}

// Service holds process level settings.
type Service struct {
	Name            string
	CreatorURI      string
	Port            int
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
	Debug           bool
}

// Config is the complete service configuration. It is built once at startup
// and handed to constructors.
type Config struct {
	Export  Export
	Dataset Dataset
	Tasks   Tasks
	SPARQL  SPARQL
	Service Service
}

// SetDefaults registers default values and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatasetType, DefaultDatasetType)
	v.SetDefault(KeyDatasetTitle, DefaultDatasetTitle)
	v.SetDefault(KeyRelativePath, DefaultRelativePath)
	v.SetDefault(KeyShareDir, DefaultShareDir)
	v.SetDefault(KeyBatchSize, DefaultBatchSize)
	v.SetDefault(KeyTaskOperation, DefaultTaskOperation)
	v.SetDefault(KeyFilesGraph, DefaultPublicGraph)
	v.SetDefault(KeyDatasetGraph, DefaultPublicGraph)
	v.SetDefault(KeyJobsGraph, DefaultJobsGraph)
	v.SetDefault(KeyServiceName, DefaultServiceName)
	v.SetDefault(KeyCreatorURI, DefaultCreatorURI)
	v.SetDefault(KeySPARQLEndpoint, DefaultSPARQL)
	v.SetDefault(KeySudo, true)
	v.SetDefault(KeySPARQLRetries, 3)
	v.SetDefault(KeySPARQLTimeout, 5*time.Minute)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyQueueSize, DefaultQueueSize)
	v.SetDefault(KeyShutdownTimeout, 30*time.Second)
	v.SetDefault(KeyUpdateJobStatus, false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		_ = v.BindEnv(key, env)
	}
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Export: Export{
			GraphToDump:         v.GetString(KeyGraphToDump),
			FileBaseName:        v.GetString(KeyFileBaseName),
			PublicationEndpoint: helpers.NormalizeURL(v.GetString(KeyPublicationEndpoint)),
			BatchSize:           v.GetInt(KeyBatchSize),
			ShareDir:            v.GetString(KeyShareDir),
			RelativePath:        v.GetString(KeyRelativePath),
		},
		Dataset: Dataset{
			Subject:    v.GetString(KeyDatasetSubject),
			Type:       v.GetString(KeyDatasetType),
			Title:      v.GetString(KeyDatasetTitle),
			Graph:      v.GetString(KeyDatasetGraph),
			FilesGraph: v.GetString(KeyFilesGraph),
		},
		Tasks: Tasks{
			Operation:       v.GetString(KeyTaskOperation),
			JobsGraph:       v.GetString(KeyJobsGraph),
			UpdateJobStatus: v.GetBool(KeyUpdateJobStatus),
			QueueSize:       v.GetInt(KeyQueueSize),
		},
		SPARQL: SPARQL{
			Endpoint:       helpers.NormalizeURL(v.GetString(KeySPARQLEndpoint)),
			UpdateEndpoint: helpers.NormalizeURL(v.GetString(KeyUpdateEndpoint)),
			Sudo:           v.GetBool(KeySudo),
			Retries:        v.GetInt(KeySPARQLRetries),
			Timeout:        v.GetDuration(KeySPARQLTimeout),
		},
		Service: Service{
			Name:            v.GetString(KeyServiceName),
			CreatorURI:      v.GetString(KeyCreatorURI),
			Port:            v.GetInt(KeyPort),
			ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
			LogLevel:        v.GetString(KeyLogLevel),
			LogFormat:       v.GetString(KeyLogFormat),
			Debug:           v.GetBool(KeyDebug),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and URI shaped settings.
func (c *Config) Validate() error {
	checks := []error{
		helpers.ValidateURI(KeyGraphToDump, c.Export.GraphToDump),
		helpers.ValidateRequired(KeyFileBaseName, c.Export.FileBaseName),
		validateBaseName(c.Export.FileBaseName),
		helpers.ValidateURI(KeyDatasetSubject, c.Dataset.Subject),
		helpers.ValidateURI(KeyDatasetType, c.Dataset.Type),
		helpers.ValidateRequired(KeyDatasetTitle, c.Dataset.Title),
		helpers.ValidateURI(KeyDatasetGraph, c.Dataset.Graph),
		helpers.ValidateURI(KeyFilesGraph, c.Dataset.FilesGraph),
		helpers.ValidateRequired(KeyShareDir, c.Export.ShareDir),
		helpers.ValidatePositive(KeyBatchSize, c.Export.BatchSize),
		helpers.ValidateURI(KeyTaskOperation, c.Tasks.Operation),
		helpers.ValidateURI(KeyJobsGraph, c.Tasks.JobsGraph),
		helpers.ValidatePositive(KeyQueueSize, c.Tasks.QueueSize),
		helpers.ValidateURI(KeySPARQLEndpoint, c.SPARQL.Endpoint),
		helpers.ValidateOptionalURI(KeyUpdateEndpoint, c.SPARQL.UpdateEndpoint),
		helpers.ValidateOptionalURI(KeyPublicationEndpoint, c.Export.PublicationEndpoint),
		helpers.ValidateURI(KeyCreatorURI, c.Service.CreatorURI),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if c.SPARQL.Retries < 0 {
		return domain.NewValidationError(KeySPARQLRetries, "must not be negative")
	}
	return nil
}

// DumpDir is the directory receiving the dump files.
func (c *Config) DumpDir() string {
	return filepath.Join(c.Export.ShareDir, c.Export.RelativePath, c.Export.FileBaseName)
}

func validateBaseName(name string) error {
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return domain.NewValidationError(KeyFileBaseName, "must be a plain file name: "+name)
	}
	return nil
}
