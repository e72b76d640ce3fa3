// README: Handler utilities: JSON error shape and domain error mapping.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"guardian/internal/modules/acceptance"
	"guardian/internal/modules/auth"
	"guardian/internal/modules/profile"
	"guardian/internal/modules/request"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// writeServiceError maps module sentinel errors onto HTTP statuses. Not-found
// and forbidden are deliberately the same 404 so callers cannot probe for
// other users' rows.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, request.ErrBadRequest),
		errors.Is(err, profile.ErrBadRequest),
		errors.Is(err, auth.ErrBadRequest),
		errors.Is(err, acceptance.ErrInvalidAction):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, request.ErrNotFound),
		errors.Is(err, profile.ErrNotFound),
		errors.Is(err, acceptance.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, request.ErrInvalidState),
		errors.Is(err, request.ErrConflict),
		errors.Is(err, acceptance.ErrConflict),
		errors.Is(err, acceptance.ErrOwnRequest),
		errors.Is(err, profile.ErrEmailTaken):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// parseMeetingTime accepts RFC 3339 and the format emitted by
// datetime-local form inputs.
func parseMeetingTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", v)
}
