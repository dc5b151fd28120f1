package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-api/internal/dto"
	middlewarepkg "github.com/octobees/outreach-api/internal/middleware"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format. The request
// id is echoed so callers can quote it when reporting provider failures.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:    "error",
		Message:   message,
		RequestID: middlewarepkg.RequestIDFromContext(c),
	}
	return c.JSON(status, payload)
}

type validatable interface {
	Validate() error
}

// bindAndValidate decodes the body into req and checks it. It returns the
// client-facing message on failure and "" when the request is usable.
func bindAndValidate(c echo.Context, req validatable) string {
	if err := c.Bind(req); err != nil {
		return "invalid payload"
	}
	if err := req.Validate(); err != nil {
		return dto.ValidationMessage(err)
	}
	return ""
}
