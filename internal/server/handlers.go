package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/dumppublisher/internal/delta"
	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/tasks"
)

// DeltaResponse is returned by the delta webhook.
type DeltaResponse struct {
	Message string   `json:"message"`         // Human readable status
	Tasks   []string `json:"tasks,omitempty"` // Tasks accepted for execution
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.String(http.StatusOK, fmt.Sprintf("Hey there, you have reached %s! Seems like I'm doing just fine :)", s.opts.ServiceName))
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// handleDelta picks scheduled tasks out of a delta message and queues them.
// It does not wait for the tasks to run.
func (s *Server) handleDelta(c echo.Context) error {
	ctx := context.WithoutCancel(c.Request().Context())

	msg, err := delta.Parse(c.Request().Body)
	if err != nil {
		s.storeError(ctx, err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	candidates := msg.ScheduledTasks()
	if len(candidates) == 0 {
		s.log.Debug("incoming deltas do not contain any scheduled task, skipping")
	}

	accepted := make([]string, 0, len(candidates))
	for _, taskURI := range candidates {
		ok, err := s.tasks.Submit(taskURI)
		switch {
		case errors.Is(err, tasks.ErrQueueFull):
			s.storeError(ctx, err)
		case err != nil:
			s.log.WithError(err).WithField("task", taskURI).Warn("task not queued")
		case ok:
			accepted = append(accepted, taskURI)
		}
	}

	return c.JSON(http.StatusOK, DeltaResponse{
		Message: "Dump file production started",
		Tasks:   accepted,
	})
}

func (s *Server) handleLatestDumpFile(c echo.Context) error {
	ds, err := s.latest.Latest(c.Request().Context())
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		}
		s.log.WithError(err).Error("failed to load latest dump file")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, ds)
}

func (s *Server) storeError(ctx context.Context, err error) {
	s.log.WithError(err).Error("failed to handle delta")
	if s.errors == nil {
		return
	}
	if serr := s.errors.StoreError(ctx, err.Error()); serr != nil {
		s.log.WithError(serr).Error("failed to store error")
	}
}
