package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/helpers"
	"evalgo.org/dumppublisher/internal/metrics"
	"evalgo.org/dumppublisher/internal/rdf"
	"evalgo.org/dumppublisher/internal/turtle"
)

const writeBufferSize = 64 * 1024

// SourceFunc returns the source reading from endpoint. An empty endpoint
// selects the default one.
type SourceFunc func(endpoint string) Source

// Options configures where dump files are written.
type Options struct {
	ShareDir     string
	RelativePath string
	BatchSize    int // Default page size when the request does not set one
}

// Error is returned when an export fails after the temporary file was
// created. TempPath is left on disk for the caller to remove.
type Error struct {
	TempPath string
	Err      error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Engine writes graphs to Turtle dump files.
type Engine struct {
	sources SourceFunc
	opts    Options
	log     *logrus.Entry
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// NewEngine creates an export engine.
func NewEngine(sources SourceFunc, opts Options, log *logrus.Entry, m *metrics.Metrics) *Engine {
	return &Engine{
		sources: sources,
		opts:    opts,
		log:     log,
		metrics: m,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Dir returns the directory receiving dumps for fileBaseName.
func (e *Engine) Dir(fileBaseName string) string {
	return filepath.Join(e.opts.ShareDir, e.opts.RelativePath, fileBaseName)
}

// Export dumps req.Graph into a new file. It returns nil without creating a
// file when the graph has no subjects, or none that is a valid IRI. The file only appears under its final
// name once it is complete.
func (e *Engine) Export(ctx context.Context, req domain.ExportRequest) (*domain.DumpFile, error) {
	started := time.Now()
	log := e.log.WithFields(logrus.Fields{"graph": req.Graph, "endpoint": req.PublicationEndpoint})

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = e.opts.BatchSize
	}
	if batchSize <= 0 {
		return nil, domain.NewValidationError("batch-size", "must be greater than zero")
	}

	src := e.sources(req.PublicationEndpoint)
	count, err := src.CountSubjects(ctx, req.Graph)
	if err != nil {
		e.metrics.ObserveExport(metrics.ResultFailed, started)
		return nil, domain.NewOperationError("export", "counting subjects failed", err)
	}
	if count == 0 {
		log.Info("no triples found, nothing to export")
		e.metrics.ObserveExport(metrics.ResultEmpty, started)
		return nil, nil
	}

	dir := e.Dir(req.FileBaseName)
	if err := helpers.EnsureDir(dir); err != nil {
		e.metrics.ObserveExport(metrics.ResultFailed, started)
		return nil, domain.NewOperationError("export", "preparing output directory failed", err)
	}

	created := e.now()
	name := fileName(req.FileBaseName, created, e.newID())
	final := filepath.Join(dir, name)
	tmp := final + helpers.ExtTmp

	log = log.WithField("file", final)
	log.Infof("Exporting 0/%d resources", count)

	stats, err := e.writeFile(ctx, src, req.Graph, batchSize, count, tmp, log)
	if err != nil {
		e.metrics.ObserveExport(metrics.ResultFailed, started)
		return nil, &Error{TempPath: tmp, Err: domain.NewOperationError("export", "writing dump file failed", err)}
	}

	if stats.subjects == 0 {
		if err := os.Remove(tmp); err != nil {
			e.metrics.ObserveExport(metrics.ResultFailed, started)
			return nil, &Error{TempPath: tmp, Err: domain.NewOperationError("export", "removing empty dump file failed", err)}
		}
		log.WithField("rejected", stats.rejected).Info("no valid subjects found, nothing to export")
		e.metrics.ObserveExport(metrics.ResultEmpty, started)
		return nil, nil
	}

	if err := os.Rename(tmp, final); err != nil {
		e.metrics.ObserveExport(metrics.ResultFailed, started)
		return nil, &Error{TempPath: tmp, Err: domain.NewOperationError("export", "publishing dump file failed", err)}
	}

	e.metrics.ObserveExport(metrics.ResultSuccess, started)
	log.WithFields(logrus.Fields{
		"subjects": stats.subjects,
		"rejected": stats.rejected,
		"triples":  stats.triples,
		"size":     stats.size,
	}).Info("dump file written")

	return &domain.DumpFile{
		Path:      final,
		Name:      name,
		Extension: turtle.Extension,
		Size:      stats.size,
		Format:    turtle.MIMEType,
		Created:   created,
		Subjects:  stats.subjects,
		Triples:   stats.triples,
	}, nil
}

type writeStats struct {
	subjects int
	rejected int
	triples  int
	size     int64
}

func (e *Engine) writeFile(ctx context.Context, src Source, graph string, batchSize, count int, path string, log *logrus.Entry) (writeStats, error) {
	var stats writeStats

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return stats, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriterSize(f, writeBufferSize)
	pager := NewSubjectPager(src, graph, batchSize, log)

	for {
		subjects, err := pager.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}

		if len(subjects) > 0 {
			triples, err := src.FetchTriples(ctx, graph, subjects)
			if err != nil {
				return stats, err
			}
			written, err := e.writePage(w, triples, log)
			if err != nil {
				return stats, err
			}
			stats.triples += written
			stats.subjects += len(subjects)
		}

		if err := w.Flush(); err != nil {
			return stats, fmt.Errorf("failed to flush %s: %w", path, err)
		}
		log.Infof("Exported %d/%d resources", min(pager.Offset(), count), count)
	}
	stats.rejected = pager.Rejected()

	if err := f.Sync(); err != nil {
		return stats, fmt.Errorf("failed to sync %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		return stats, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	stats.size = info.Size()

	if err := f.Close(); err != nil {
		return stats, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return stats, nil
}

// writePage serializes one page of statements. Statements that cannot be
// represented are skipped, terms of unknown shape are written as strings.
func (e *Engine) writePage(w *bufio.Writer, triples []rdf.Triple, log *logrus.Entry) (int, error) {
	written, skipped, degradedCount := 0, 0, 0
	for _, t := range triples {
		line, degraded, err := turtle.FormatTriple(t)
		if err != nil {
			skipped++
			log.WithError(err).WithField("predicate", t.Predicate).Warn("skipping statement")
			continue
		}
		for _, d := range degraded {
			degradedCount++
			log.WithFields(logrus.Fields{
				"predicate": t.Predicate,
				"value":     valueOf(d),
			}).Warn("don't know how to escape term, writing it as a string")
		}

		if _, err := w.WriteString(line); err != nil {
			return written, err
		}
		if err := w.WriteByte('\n'); err != nil {
			return written, err
		}
		written++
	}

	e.metrics.AddTriples(written)
	e.metrics.AddSkipped(skipped)
	e.metrics.AddDegraded(degradedCount)
	return written, nil
}

func valueOf(t rdf.Term) string {
	if t == nil {
		return ""
	}
	return t.Value()
}

// fileName builds <base>-<yyyyMMddHHmmssSSS>-<id>.ttl using UTC time.
func fileName(base string, t time.Time, id string) string {
	stamp := strings.Replace(t.UTC().Format(helpers.FileTimestampLayout), ".", "", 1)
	return base + "-" + stamp + "-" + id + turtle.Extension
}
