// Package server exposes the HTTP surface of the service: the delta webhook,
// the latest dump file lookup, health, metrics and API documentation.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	// swagger docs
	_ "evalgo.org/dumppublisher/docs"
	"evalgo.org/dumppublisher/internal/domain"
)

// Submitter queues tasks for execution.
type Submitter interface {
	Submit(taskURI string) (bool, error)
}

// ErrorSink records errors that are not related to a task.
type ErrorSink interface {
	StoreError(ctx context.Context, message string) error
}

// LatestProvider returns the current dataset version.
type LatestProvider interface {
	Latest(ctx context.Context) (*domain.Dataset, error)
}

// Options configures the HTTP server.
type Options struct {
	ServiceName string
	BodyLimit   string              // Maximum delta body size, e.g. "10M"
	Gatherer    prometheus.Gatherer // Source of /metrics, defaults to the global registry
}

// Server is the echo based HTTP server.
type Server struct {
	echo   *echo.Echo
	opts   Options
	tasks  Submitter
	errors ErrorSink
	latest LatestProvider
	log    *logrus.Entry
}

// New creates the server and registers its routes.
func New(opts Options, tasks Submitter, errs ErrorSink, latest LatestProvider, log *logrus.Entry) *Server {
	if opts.BodyLimit == "" {
		opts.BodyLimit = "10M"
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		opts:   opts,
		tasks:  tasks,
		errors: errs,
		latest: latest,
		log:    log,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(opts.BodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			entry := s.log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request handled")
			return nil
		},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/delta", s.handleDelta)
	s.echo.POST("/produce-dump-file", s.handleDelta)
	s.echo.GET("/latest-dump-file", s.handleLatestDumpFile)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on port until Shutdown is called.
func (s *Server) Start(port int) error {
	s.log.WithField("port", port).Info("starting HTTP server")
	if err := s.echo.Start(fmt.Sprintf(":%d", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
