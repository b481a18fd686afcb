package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/feedhub/internal/common"
	"github.com/labstack/echo/v4"
)

const (
	msgUnauthorized = "unauthorized"
	msgRetry        = "service unavailable, retry"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// writeError maps a service error onto a status code and a generic message.
// The error itself is only logged.
func (s *Server) writeError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	var (
		status int
		msg    string
	)
	switch {
	case errors.Is(err, common.ErrValidation):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrorUnauthorized):
		status, msg = http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, common.ErrorNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorAlreadyExists):
		status, msg = http.StatusConflict, "username is already taken"
	case errors.Is(err, common.ErrStorageUnavailable), errors.Is(err, common.ErrTransientFailure):
		status, msg = http.StatusInternalServerError, msgRetry
	default:
		status, msg = http.StatusInternalServerError, "internal server error"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "error", err.Error())
	} else {
		s.logger.Info(ctx, "request refused", "error", err.Error())
	}
	return c.JSON(status, errorResponse{Error: msg})
}
