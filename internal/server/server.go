// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes research runs over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ashr-exe/icarus-insight/internal/logging"
	"github.com/ashr-exe/icarus-insight/internal/store"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// DefaultRunTimeout bounds a run when Options.RunTimeout is zero.
const DefaultRunTimeout = 2 * time.Minute

// Runner executes one research query.
type Runner interface {
	Run(ctx context.Context, query string, filters types.Filters) (*types.ResearchReport, error)
}

// Archive persists completed runs. *store.Store satisfies it.
type Archive interface {
	Save(ctx context.Context, r *types.ResearchReport) error
	List(ctx context.Context, limit int) ([]store.Summary, error)
	Load(ctx context.Context, id string) (*types.ResearchReport, error)
}

// Options configures a Server.
type Options struct {
	Runner Runner

	// Archive is optional. Without it runs are not saved and the run
	// endpoints answer 404.
	Archive Archive

	RunTimeout time.Duration
	Logger     *log.Logger
}

// CustomValidator plugs go-playground/validator into echo's Bind flow.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate checks struct tags on i.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// Server is the HTTP front end.
type Server struct {
	opts Options
	log  *log.Logger
	echo *echo.Echo
}

// New builds a Server with its routes registered.
func New(opts Options) *Server {
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = DefaultRunTimeout
	}
	s := &Server{opts: opts, log: logging.OrDiscard(opts.Logger)}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	s.echo = e
	s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("starting server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight runs.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
