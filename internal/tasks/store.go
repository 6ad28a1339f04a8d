// Package tasks drives the lifecycle of dump file tasks.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/sparql"
)

// Vocabulary used for tasks, jobs and errors.
const (
	TaskType       = "http://redpencil.data.gift/vocabularies/tasks/Task"
	JobType        = "http://vocab.deri.ie/cogs#Job"
	ErrorType      = "http://open-services.net/ns/core#Error"
	DeltaErrorType = "http://redpencil.data.gift/vocabularies/deltas/Error"
	ErrorPrefix    = "http://redpencil.data.gift/id/jobs/error/"
)

// Store reads tasks and persists their status and errors.
type Store interface {
	// FindTask loads a task with its parent job. It returns a
	// *domain.NotFoundError when no such task exists.
	FindTask(ctx context.Context, taskURI string) (*domain.Task, error)
	// UpdateStatus replaces the adms:status of a task or job.
	UpdateStatus(ctx context.Context, uri string, status domain.Status) error
	// AppendTaskError attaches a new error entry to a task.
	AppendTaskError(ctx context.Context, taskURI, message string) error
	// StoreError records an error that is not related to any task.
	StoreError(ctx context.Context, message string) error
}

// StoreOptions configures a SPARQLStore.
type StoreOptions struct {
	JobsGraph   string // Graph receiving standalone errors
	ServiceName string // dct:subject of standalone errors
	CreatorURI  string // dct:creator of standalone errors
}

// SPARQLStore is a Store backed by a SPARQL endpoint.
type SPARQLStore struct {
	exec  sparql.Executor
	opts  StoreOptions
	now   func() time.Time
	newID func() string
}

// NewSPARQLStore creates a task store.
func NewSPARQLStore(exec sparql.Executor, opts StoreOptions) *SPARQLStore {
	return &SPARQLStore{
		exec:  exec,
		opts:  opts,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// FindTask implements Store.
func (s *SPARQLStore) FindTask(ctx context.Context, taskURI string) (*domain.Task, error) {
	q := sparql.Prefixes + fmt.Sprintf(`
SELECT DISTINCT ?job ?jobOperation ?operation ?status
WHERE {
  BIND(%[1]s AS ?task)
  GRAPH ?g {
    ?task a %[2]s ;
      dct:isPartOf ?job ;
      task:operation ?operation ;
      adms:status ?status .
    ?job a %[3]s ;
      task:operation ?jobOperation .
  }
}
LIMIT 1`, sparql.URI(taskURI), sparql.URI(TaskType), sparql.URI(JobType))

	res, err := s.exec.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load task %s: %w", taskURI, err)
	}
	rows := res.Rows()
	if len(rows) == 0 {
		return nil, domain.NewNotFoundError("task", taskURI)
	}

	row := rows[0]
	return &domain.Task{
		URI:          taskURI,
		Job:          row["job"].Value,
		Operation:    row["operation"].Value,
		JobOperation: row["jobOperation"].Value,
		Status:       domain.Status(row["status"].Value),
	}, nil
}

// UpdateStatus implements Store.
func (s *SPARQLStore) UpdateStatus(ctx context.Context, uri string, status domain.Status) error {
	q := sparql.Prefixes + fmt.Sprintf(`
DELETE {
  GRAPH ?g {
    %[1]s adms:status ?status .
  }
}
INSERT {
  GRAPH ?g {
    %[1]s adms:status %[2]s .
  }
}
WHERE {
  GRAPH ?g {
    %[1]s adms:status ?status .
  }
}`, sparql.URI(uri), sparql.URI(string(status)))

	if err := s.exec.Update(ctx, q); err != nil {
		return fmt.Errorf("failed to set status of %s to %s: %w", uri, status, err)
	}
	return nil
}

// AppendTaskError implements Store. The error is written to the graph that
// holds the task.
func (s *SPARQLStore) AppendTaskError(ctx context.Context, taskURI, message string) error {
	id := s.newID()
	q := sparql.Prefixes + fmt.Sprintf(`
INSERT {
  GRAPH ?g {
    %[1]s a %[2]s ;
      mu:uuid %[3]s ;
      oslc:message %[4]s .
    %[5]s task:error %[1]s .
  }
}
WHERE {
  GRAPH ?g {
    %[5]s a ?type .
  }
}`, sparql.URI(ErrorPrefix+id), sparql.URI(ErrorType), sparql.String(id), sparql.String(message), sparql.URI(taskURI))

	if err := s.exec.Update(ctx, q); err != nil {
		return fmt.Errorf("failed to attach error to task %s: %w", taskURI, err)
	}
	return nil
}

// StoreError implements Store.
func (s *SPARQLStore) StoreError(ctx context.Context, message string) error {
	id := s.newID()
	q := sparql.Prefixes + fmt.Sprintf(`
INSERT DATA {
  GRAPH %s {
    %s a %s, %s ;
      mu:uuid %s ;
      dct:subject %s ;
      oslc:message %s ;
      dct:created %s ;
      dct:creator %s .
  }
}`,
		sparql.URI(s.opts.JobsGraph),
		sparql.URI(ErrorPrefix+id),
		sparql.URI(ErrorType),
		sparql.URI(DeltaErrorType),
		sparql.String(id),
		sparql.String(s.opts.ServiceName),
		sparql.String(message),
		sparql.DateTime(s.now()),
		sparql.URI(s.opts.CreatorURI),
	)

	if err := s.exec.Update(ctx, q); err != nil {
		return fmt.Errorf("failed to store error: %w", err)
	}
	return nil
}
