package tasks

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/metrics"
)

// Outcome labels.
const (
	OutcomeSkipped = "skipped"
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Runner executes the work behind a task operation.
type Runner interface {
	// Supports reports whether operation has a handler.
	Supports(operation string) bool
	// Handle runs the task and returns a result summary.
	Handle(ctx context.Context, task *domain.Task) (map[string]interface{}, error)
}

// Outcome describes what Execute did with a task.
type Outcome struct {
	Task   string
	Result string                 // One of the Outcome labels
	Status domain.Status          // Final status, empty when skipped
	Reason string                 // Why the task was skipped
	Output map[string]interface{} // Handler result on success
	Err    error                  // Handler error on failure
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	UpdateJobStatus bool // Mirror the terminal task status on the parent job
}

// Controller moves tasks through Scheduled -> Busy -> Success | Failed.
type Controller struct {
	store   Store
	runner  Runner
	opts    ControllerOptions
	log     *logrus.Entry
	metrics *metrics.Metrics
}

// NewController creates a task lifecycle controller.
func NewController(store Store, runner Runner, opts ControllerOptions, log *logrus.Entry, m *metrics.Metrics) *Controller {
	return &Controller{
		store:   store,
		runner:  runner,
		opts:    opts,
		log:     log,
		metrics: m,
	}
}

// Execute runs the task identified by taskURI if it is of interest. Handler
// failures and panics are recorded on the task and reported in the Outcome;
// the returned error is only set when the task could not be loaded or its
// status could not be persisted.
func (c *Controller) Execute(ctx context.Context, taskURI string) (*Outcome, error) {
	log := c.log.WithField("task", taskURI)

	task, err := c.store.FindTask(ctx, taskURI)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return c.skip(log, taskURI, "not a known task"), nil
		}
		return nil, err
	}
	if task.Status != domain.StatusScheduled {
		return c.skip(log, taskURI, "task status is "+string(task.Status)), nil
	}
	if !c.runner.Supports(task.Operation) {
		return c.skip(log, taskURI, "no handler for operation "+task.Operation), nil
	}

	log = log.WithFields(logrus.Fields{"job": task.Job, "operation": task.Operation})
	log.Info("generating dump file for task")

	if err := c.store.UpdateStatus(ctx, task.URI, domain.StatusBusy); err != nil {
		return c.fail(ctx, log, task, fmt.Errorf("marking task busy failed: %w", err))
	}
	task.Status = domain.StatusBusy

	output, err := c.run(ctx, log, task)
	if err != nil {
		return c.fail(ctx, log, task, err)
	}

	final := context.WithoutCancel(ctx)
	if err := c.setStatus(final, task, domain.StatusSuccess); err != nil {
		return nil, err
	}
	log.Info("task finished")
	c.metrics.ObserveTask(OutcomeSuccess)

	return &Outcome{
		Task:   task.URI,
		Result: OutcomeSuccess,
		Status: domain.StatusSuccess,
		Output: output,
	}, nil
}

// run calls the runner, turning a panic into an error.
func (c *Controller) run(ctx context.Context, log *logrus.Entry, task *domain.Task) (output map[string]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Errorf("panic while handling task: %v", r)
			err = fmt.Errorf("panic while handling task: %v", r)
		}
	}()
	return c.runner.Handle(ctx, task)
}

// fail records cause on the task and marks it Failed. Writes are detached
// from ctx so a cancelled caller still leaves a terminal status behind.
func (c *Controller) fail(ctx context.Context, log *logrus.Entry, task *domain.Task, cause error) (*Outcome, error) {
	final := context.WithoutCancel(ctx)
	log.WithError(cause).Error("an error occurred while creating the dump file")
	c.metrics.ObserveTask(OutcomeFailed)

	message := strings.TrimSpace(cause.Error())
	if message == "" {
		message = "unknown error"
	}

	var errs []error
	if err := c.store.AppendTaskError(final, task.URI, message); err != nil {
		errs = append(errs, err)
	}
	if err := c.setStatus(final, task, domain.StatusFailed); err != nil {
		errs = append(errs, err)
	}

	return &Outcome{
		Task:   task.URI,
		Result: OutcomeFailed,
		Status: domain.StatusFailed,
		Err:    cause,
	}, errors.Join(errs...)
}

func (c *Controller) setStatus(ctx context.Context, task *domain.Task, status domain.Status) error {
	if err := c.store.UpdateStatus(ctx, task.URI, status); err != nil {
		return err
	}
	task.Status = status

	if c.opts.UpdateJobStatus && task.Job != "" {
		if err := c.store.UpdateStatus(ctx, task.Job, status); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) skip(log *logrus.Entry, taskURI, reason string) *Outcome {
	log.WithField("reason", reason).Debug("task not of interest, skipping")
	c.metrics.ObserveTask(OutcomeSkipped)
	return &Outcome{Task: taskURI, Result: OutcomeSkipped, Reason: reason}
}
