// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ashr-exe/icarus-insight/internal/pipeline"
	"github.com/ashr-exe/icarus-insight/internal/report"
	"github.com/ashr-exe/icarus-insight/internal/store"
)

func (s *Server) routes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := s.echo.Group("/api/v1")
	api.POST("/research", s.research)
	api.GET("/runs", s.listRuns)
	api.GET("/runs/:id", s.getRun)
}

type researchRequest struct {
	Query   string         `json:"query" validate:"required"`
	Filters requestFilters `json:"filters"`
	Format  string         `json:"format,omitempty"`
}

type requestFilters struct {
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	Organizations  []string `json:"organizations"`
	TechCategories []string `json:"tech_categories"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
}

func (s *Server) research(c echo.Context) error {
	req := new(researchRequest)
	if err := c.Bind(req); err != nil {
		return badRequest(c, err)
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err)
	}
	if err := pipeline.CheckQuery(req.Query); err != nil {
		return badRequest(c, err)
	}
	format := report.FormatJSON
	if req.Format != "" {
		f, err := report.ParseFormat(req.Format)
		if err != nil {
			return badRequest(c, err)
		}
		format = f
	}
	filters, err := pipeline.ParseFilters(req.Filters.StartDate, req.Filters.EndDate,
		req.Filters.Organizations, req.Filters.TechCategories)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.opts.RunTimeout)
	defer cancel()
	rep, err := s.opts.Runner.Run(ctx, req.Query, filters)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, errorResponse{Message: "Research run timed out"})
	case errors.Is(err, context.Canceled):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "Research run cancelled"})
	case err != nil:
		s.log.Error("research run failed", "query", req.Query, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Research run failed", Error: err.Error()})
	}

	if s.opts.Archive != nil {
		if err := s.opts.Archive.Save(c.Request().Context(), rep); err != nil {
			s.log.Warn("archiving run failed", "run", rep.ID, "err", err)
		}
	}
	if format == report.FormatJSON {
		return c.JSON(http.StatusOK, rep)
	}
	data, err := report.Bytes(rep, format)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Rendering report failed", Error: err.Error()})
	}
	return c.Blob(http.StatusOK, format.ContentType(), data)
}

func (s *Server) listRuns(c echo.Context) error {
	if s.opts.Archive == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Message: "Run archive disabled"})
	}
	limit := 0
	if q := c.QueryParam("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid limit"})
		}
		limit = n
	}
	runs, err := s.opts.Archive.List(c.Request().Context(), limit)
	if err != nil {
		s.log.Error("listing runs failed", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}
	if runs == nil {
		runs = []store.Summary{}
	}
	return c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c echo.Context) error {
	if s.opts.Archive == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Message: "Run archive disabled"})
	}
	rep, err := s.opts.Archive.Load(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Message: "Run not found"})
	}
	if err != nil {
		s.log.Error("loading run failed", "run", c.Param("id"), "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}

	format := report.FormatJSON
	if q := c.QueryParam("format"); q != "" {
		f, err := report.ParseFormat(q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid format", Error: err.Error()})
		}
		format = f
	}
	if format == report.FormatJSON {
		return c.JSON(http.StatusOK, rep)
	}
	data, err := report.Bytes(rep, format)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Rendering report failed", Error: err.Error()})
	}
	return c.Blob(http.StatusOK, format.ContentType(), data)
}
