package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/api/errors"
	"github.com/jordanlanch/leadcrm/pkg/jobs"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// JobRunner runs scheduled jobs on demand
type JobRunner interface {
	RunDigest(ctx context.Context) (*jobs.DigestResult, error)
	WarmCache(ctx context.Context) error
}

// JobsHandler lets Team Leaders trigger background jobs
type JobsHandler struct {
	runner JobRunner
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(runner JobRunner) *JobsHandler {
	return &JobsHandler{runner: runner}
}

// RunDailyDigest godoc
// @Summary Send the daily digest now
// @Description Renders the dashboard CSV and mails it to every active Team Leader
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} jobs.DigestResult
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /jobs/daily-digest [post]
func (h *JobsHandler) RunDailyDigest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	result, err := h.runner.RunDigest(ctx)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// WarmCache godoc
// @Summary Recompute the dashboard cache
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /jobs/warm-cache [post]
func (h *JobsHandler) WarmCache(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.runner.WarmCache(ctx); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Dashboard cache refreshed"})
}
