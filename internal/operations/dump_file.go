package operations

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/export"
	"evalgo.org/dumppublisher/internal/helpers"
)

// Exporter writes a graph to a dump file.
type Exporter interface {
	Export(ctx context.Context, req domain.ExportRequest) (*domain.DumpFile, error)
}

// DatasetPublisher records a dump file as a new dataset version.
type DatasetPublisher interface {
	Publish(ctx context.Context, dump *domain.DumpFile) (*domain.Dataset, error)
}

// DumpFileHandler handles dump file creation tasks: it exports the configured
// graph and publishes the resulting file as the newest dataset version.
type DumpFileHandler struct {
	exporter  Exporter
	publisher DatasetPublisher
	request   domain.ExportRequest
	log       *logrus.Entry
}

// NewDumpFileHandler creates a dump file creation handler
func NewDumpFileHandler(exporter Exporter, publisher DatasetPublisher, req domain.ExportRequest, log *logrus.Entry) Handler {
	return &DumpFileHandler{
		exporter:  exporter,
		publisher: publisher,
		request:   req,
		log:       log,
	}
}

// Handle executes the export and publication
func (h *DumpFileHandler) Handle(ctx context.Context, task *domain.Task) (map[string]interface{}, error) {
	if err := helpers.ValidateURI("graph", h.request.Graph); err != nil {
		return nil, err
	}
	if err := helpers.ValidateRequired("file-basename", h.request.FileBaseName); err != nil {
		return nil, err
	}

	log := h.log.WithFields(logrus.Fields{"task": task.URI, "graph": h.request.Graph})
	cleanup := helpers.NewFileCleanup(log)
	defer func() { _ = cleanup.Cleanup() }()

	result := Result()
	SetResult(result, "graph", h.request.Graph)

	dump, err := h.exporter.Export(ctx, h.request)
	if err != nil {
		var exportErr *export.Error
		if errors.As(err, &exportErr) {
			cleanup.Add(exportErr.TempPath)
		}
		return nil, err
	}
	if dump == nil {
		SetResult(result, "status", "empty")
		SetResult(result, "message", "Nothing to export")
		return result, nil
	}

	dataset, err := h.publisher.Publish(ctx, dump)
	if err != nil {
		// The dump file stays on disk, it just has no dataset pointing at it.
		log.WithField("file", dump.Path).Warn("dump file written but not published")
		return nil, err
	}

	SetResult(result, "status", "completed")
	SetResult(result, "message", "Dump file created successfully")
	SetResult(result, "file", dump.Path)
	SetResult(result, "size", dump.Size)
	SetResult(result, "triples", dump.Triples)
	SetResult(result, "dataset", dataset.URI)
	if dataset.Distribution != nil {
		SetResult(result, "distribution", dataset.Distribution.URI)
	}
	if dataset.WasRevisionOf != "" {
		SetResult(result, "previous_dataset", dataset.WasRevisionOf)
	}

	return result, nil
}
