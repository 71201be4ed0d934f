package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

func newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRespond_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", domain.NewValidationError("Please fill in all the fields", "name"), http.StatusBadRequest, "Please fill in all the fields"},
		{"unauthorized", domain.NewUnauthorizedError("Incorrect email or password"), http.StatusUnauthorized, "Incorrect email or password"},
		{"forbidden", domain.NewForbiddenError("Forbidden"), http.StatusForbidden, "Forbidden"},
		{"not found", domain.NewNotFoundError("No such lead"), http.StatusNotFound, "No such lead"},
		{"conflict", domain.NewConflictError("Lead was modified by another request"), http.StatusConflict, "Lead was modified by another request"},
		{"wrapped", fmt.Errorf("update: %w", domain.NewNotFoundError("No such lead")), http.StatusNotFound, "No such lead"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/api/leads/1")
			require.NoError(t, Respond(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, parseBody(t, rec).Error)
		})
	}
}

func TestRespond_EmptyFields(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/leads")
	require.NoError(t, Respond(c, domain.NewValidationError("Please fill in all the fields", "phonenumber", "emailaddress")))

	assert.JSONEq(t, `{"error":"Please fill in all the fields","emptyFields":["phonenumber","emailaddress"]}`, rec.Body.String())
}

func TestRespond_UnknownErrorIsHidden(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(logger.NewSlog(&buf, "info"))
	defer SetLogger(logger.Nop())

	c, rec := newContext(http.MethodGet, "/api/leads")
	require.NoError(t, Respond(c, errors.New("mongo: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "connection refused")
}

func TestRespond_InternalWithMessage(t *testing.T) {
	SetLogger(logger.Nop())
	c, rec := newContext(http.MethodPost, "/api/emails")
	err := &domain.DomainError{Code: domain.ErrCodeInternal, Message: "Email could not be sent", Err: errors.New("smtp: 421")}
	require.NoError(t, Respond(c, err))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Email could not be sent", parseBody(t, rec).Error)
}

func TestRespond_BindError(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/leads")
	require.NoError(t, Respond(c, echo.NewHTTPError(http.StatusBadRequest, "unexpected EOF")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgInvalidRequest, parseBody(t, rec).Error)
}
