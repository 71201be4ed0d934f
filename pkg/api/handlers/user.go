package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/api/errors"
	"github.com/jordanlanch/leadcrm/pkg/api/middleware"
	"github.com/jordanlanch/leadcrm/pkg/audit"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/models"
	"github.com/jordanlanch/leadcrm/pkg/users"
)

// UserHandler handles login, logout and the staff directory
type UserHandler struct {
	users  *users.Service
	audit  domain.AuditLogger
	logger logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *users.Service, auditLogger domain.AuditLogger, log logger.Logger) *UserHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UserHandler{users: userService, audit: auditLogger, logger: log}
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token
// @Tags Users
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse "Missing fields"
// @Failure 401 {object} models.ErrorResponse "Incorrect email or password"
// @Failure 429 {object} models.ErrorResponse
// @Router /userLG/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest(c, errors.MsgInvalidRequest)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, u, err := h.users.Login(ctx, req)
	if err != nil {
		return errors.Respond(c, err)
	}

	ip, ua := audit.GetRequestContext(c)
	go h.audit.LogUserLogin(background(c), u.ID.Hex(), ip, ua)

	return c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out
// @Description Revokes the bearer token until it expires
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /userLG/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.users.Logout(ctx, middleware.TokenFrom(c), middleware.ClaimsFrom(c)); err != nil {
		return errors.Respond(c, err)
	}

	ip, ua := audit.GetRequestContext(c)
	go h.audit.LogUserLogout(background(c), actor.ID, ip, ua)

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// Signup godoc
// @Summary Create a staff account
// @Description Team Leaders add Lead Generation, Telemarketer and Team Leader accounts
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SignupRequest true "Account"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /userLG/signup [post]
func (h *UserHandler) Signup(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest(c, errors.MsgInvalidRequest)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.users.Signup(ctx, actor, req)
	if err != nil {
		return errors.Respond(c, err)
	}

	ip, ua := audit.GetRequestContext(c)
	go h.audit.LogUserSignup(background(c), actor.ID, u.ID.Hex(), ip, ua)

	return c.JSON(http.StatusOK, u)
}

// Me godoc
// @Summary Current user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /userLG/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.users.Get(ctx, actor, actor.ID)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// List godoc
// @Summary List staff
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /userLG [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.users.List(ctx, actor)
	if err != nil {
		return errors.Respond(c, err)
	}
	if list == nil {
		list = []*models.User{}
	}
	return c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary Get a user
// @Description Callers may read themselves; Team Leaders anyone
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "No such user"
// @Router /userLG/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.users.Get(ctx, actor, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Update godoc
// @Summary Update a user
// @Description Profile edits by the user or a Team Leader. Role, team and status are Team Leader only.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /userLG/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return errors.Respond(c, err)
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest(c, errors.MsgInvalidRequest)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.users.UpdateProfile(ctx, actor, c.Param("id"), req)
	if err != nil {
		return errors.Respond(c, err)
	}

	h.logger.Info("user updated", "user_id", u.ID.Hex(), "actor_id", actor.ID, "privileged", req.TouchesPrivilegedFields())
	return c.JSON(http.StatusOK, u)
}
