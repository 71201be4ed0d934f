package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/api/errors"
	"github.com/jordanlanch/leadcrm/pkg/audit"
	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/leads"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// LeadHandler handles lead endpoints
type LeadHandler struct {
	leads *leads.Service
	audit domain.AuditLogger
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *leads.Service, auditLogger domain.AuditLogger) *LeadHandler {
	return &LeadHandler{leads: leadService, audit: auditLogger}
}

// ListOwn godoc
// @Summary List my leads
// @Description Leads created by the caller, excluding Do Not Call
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Lead
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /leads [get]
func (h *LeadHandler) ListOwn(c echo.Context) error {
	return h.list(c, h.leads.ListOwn)
}

// ListAll godoc
// @Summary List all leads
// @Description Every active lead. Team Leaders only.
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Lead
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /leads/tl [get]
func (h *LeadHandler) ListAll(c echo.Context) error {
	return h.list(c, h.leads.ListAll)
}

// ListUnassigned godoc
// @Summary Telemarketer inventory
// @Description Unassigned leads plus leads assigned to the caller
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Lead
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /leads/unassigned [get]
func (h *LeadHandler) ListUnassigned(c echo.Context) error {
	return h.list(c, h.leads.ListInventory)
}

func (h *LeadHandler) list(c echo.Context, fetch func(ctx context.Context, actor auth.Identity) ([]*models.Lead, error)) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := fetch(ctx, actor)
	if err != nil {
		return errors.Respond(c, err)
	}
	if list == nil {
		list = []*models.Lead{}
	}
	return c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary Get a lead
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} models.Lead
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "No such lead"
// @Router /leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	lead, err := h.leads.Get(ctx, actor, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// History godoc
// @Summary Assignment history of a lead
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {array} models.Assignment
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /leads/{id}/assignments [get]
func (h *LeadHandler) History(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	history, err := h.leads.History(ctx, actor, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	if history == nil {
		history = []*models.Assignment{}
	}
	return c.JSON(http.StatusOK, history)
}

// Create godoc
// @Summary Create a lead
// @Description Name plus a phone number or email address are required
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateLeadRequest true "Lead"
// @Success 200 {object} models.Lead
// @Failure 400 {object} models.ErrorResponse "Missing fields, see emptyFields"
// @Failure 403 {object} models.ErrorResponse
// @Router /leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}

	var req models.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest(c, errors.MsgInvalidRequest)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	lead, err := h.leads.Create(ctx, actor, req)
	if err != nil {
		return errors.Respond(c, err)
	}

	go h.audit.LogLeadAction(background(c), audit.ActionLeadCreate, actor.ID, lead.ID.Hex(), nil)

	return c.JSON(http.StatusOK, lead)
}

// Update godoc
// @Summary Update a lead
// @Description Edits contact fields, remarks, assignedTo and callDisposition in one write. Send __v to reject stale updates.
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body models.UpdateLeadRequest true "Fields to change"
// @Success 200 {object} models.Lead
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "No such lead"
// @Failure 409 {object} models.ErrorResponse "Lead was modified by another request"
// @Router /leads/{id} [patch]
func (h *LeadHandler) Update(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}

	var req models.UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest(c, errors.MsgInvalidRequest)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	lead, err := h.leads.Update(ctx, actor, c.Param("id"), req)
	if err != nil {
		return errors.Respond(c, err)
	}

	action := audit.ActionLeadUpdate
	metadata := map[string]interface{}{}
	if req.AssignedTo.Set {
		action = audit.ActionLeadAssign
		metadata["assignedTo"] = lead.AssignedToID()
	}
	if req.CallDisposition != nil {
		metadata["callDisposition"] = string(*req.CallDisposition)
	}
	go h.audit.LogLeadAction(background(c), action, actor.ID, lead.ID.Hex(), metadata)

	return c.JSON(http.StatusOK, lead)
}

// Delete godoc
// @Summary Delete a lead
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} models.Lead "The deleted lead"
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "No such lead"
// @Router /leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	lead, err := h.leads.Delete(ctx, actor, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}

	go h.audit.LogLeadAction(background(c), audit.ActionLeadDelete, actor.ID, lead.ID.Hex(), map[string]interface{}{"name": lead.Name})

	return c.JSON(http.StatusOK, lead)
}
