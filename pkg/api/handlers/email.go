package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/api/errors"
	"github.com/jordanlanch/leadcrm/pkg/audit"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/email"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// EmailHandler handles outbound correspondence
type EmailHandler struct {
	emails *email.Service
	audit  domain.AuditLogger
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(emailService *email.Service, auditLogger domain.AuditLogger) *EmailHandler {
	return &EmailHandler{emails: emailService, audit: auditLogger}
}

// Send godoc
// @Summary Send an email
// @Description Sends through the configured provider and records the message
// @Tags Emails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendEmailRequest true "Message"
// @Success 200 {object} models.Email
// @Failure 400 {object} models.ErrorResponse "Missing fields, see emptyFields"
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "No such lead"
// @Failure 500 {object} models.ErrorResponse "Email could not be sent"
// @Router /emails [post]
func (h *EmailHandler) Send(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}

	var req models.SendEmailRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest(c, errors.MsgInvalidRequest)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := h.emails.Send(ctx, actor, req)
	if err != nil {
		return errors.Respond(c, err)
	}

	ip, ua := audit.GetRequestContext(c)
	go h.audit.LogEmailSent(background(c), actor.ID, record.ID.Hex(), ip, ua)

	return c.JSON(http.StatusOK, record)
}

// List godoc
// @Summary List sent emails
// @Tags Emails
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Email
// @Failure 403 {object} models.ErrorResponse
// @Router /emails [get]
func (h *EmailHandler) List(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.emails.List(ctx, actor)
	if err != nil {
		return errors.Respond(c, err)
	}
	if list == nil {
		list = []*models.Email{}
	}
	return c.JSON(http.StatusOK, list)
}
