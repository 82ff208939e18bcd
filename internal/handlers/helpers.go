package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"startup_journey/internal/middlewares"
	"startup_journey/internal/responses"
	"startup_journey/internal/services"
	"startup_journey/internal/utils"
)

// currentUser returns the user id set by the auth middleware, writing a 401
// when it is missing.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middlewares.UserIDKey)
	if !exists {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a path parameter, writing a 400 when it is not a UUID.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	id, err := utils.ParseOptionalUUID(c.Query(name))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid "+name)
		return nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid "+name)
		return 0, false
	}
	return n, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return false
	}
	return true
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope for err. Internal errors are logged and
// their text is not sent to the client.
func fail(c *gin.Context, err error, message string) {
	status := statusFor(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), message, "error", err, "path", c.FullPath())
		responses.Fail(c, status, nil, message)
		return
	}
	responses.Fail(c, status, err, message)
}
