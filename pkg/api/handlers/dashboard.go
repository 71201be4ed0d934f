package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/analytics"
	"github.com/jordanlanch/leadcrm/pkg/api/errors"
	"github.com/jordanlanch/leadcrm/pkg/export"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// DashboardHandler serves the Team Leader dashboard and its report download
type DashboardHandler struct {
	analytics     *analytics.Service
	reports       *export.Service
	bookingsLimit int
}

// NewDashboardHandler creates a new dashboard handler. bookingsLimit is the
// default size of the recent bookings list.
func NewDashboardHandler(analyticsService *analytics.Service, reports *export.Service, bookingsLimit int) *DashboardHandler {
	if bookingsLimit <= 0 {
		bookingsLimit = analytics.DefaultBookingsLimit
	}
	return &DashboardHandler{analytics: analyticsService, reports: reports, bookingsLimit: bookingsLimit}
}

// Inventory godoc
// @Summary Dashboard inventory
// @Description Lead, user and email totals plus per-disposition counts
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Inventory
// @Failure 403 {object} models.ErrorResponse
// @Router /inventories/inventory [get]
func (h *DashboardHandler) Inventory(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	inv, err := h.analytics.Inventory(ctx, actor)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

// RecentBookings godoc
// @Summary Recent bookings
// @Description Booked leads with their telemarketer, newest first
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query integer false "Maximum rows"
// @Success 200 {array} models.Booking
// @Failure 403 {object} models.ErrorResponse
// @Router /bookings/recent-bookings [get]
func (h *DashboardHandler) RecentBookings(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}

	limit := h.bookingsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return errors.BadRequest(c, "Limit must be a positive number")
		}
		limit = n
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	bookings, err := h.analytics.RecentBookings(ctx, actor, limit)
	if err != nil {
		return errors.Respond(c, err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return c.JSON(http.StatusOK, bookings)
}

// BookedUnits godoc
// @Summary Booked units per telemarketer
// @Description Every active telemarketer ranked by booked leads
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.BookedUnits
// @Failure 403 {object} models.ErrorResponse
// @Router /services/booked-units-performance [get]
func (h *DashboardHandler) BookedUnits(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.analytics.BookedUnitsPerformance(ctx, actor)
	if err != nil {
		return errors.Respond(c, err)
	}
	if rows == nil {
		rows = []models.BookedUnits{}
	}
	return c.JSON(http.StatusOK, rows)
}

// Report godoc
// @Summary Download the dashboard report
// @Tags Dashboard
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "csv or excel" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /reports/dashboard [get]
func (h *DashboardHandler) Report(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}

	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return errors.Respond(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	file, err := h.reports.Dashboard(ctx, actor, format)
	if err != nil {
		return errors.Respond(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
