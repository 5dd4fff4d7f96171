package handlers

import (
	"errors"
	"net/http"

	"claim_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// httpError maps service-layer errors onto HTTP responses. Unrecognized
// errors become a 500 without leaking internals.
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrDuplicateRequest):
		return echo.NewHTTPError(http.StatusConflict, "An assessment already exists for this request")
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrStaleState):
		return echo.NewHTTPError(http.StatusConflict, "The record changed since it was last read; reload and retry")
	case errors.Is(err, services.ErrPreconditionFailed):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	case errors.Is(err, services.ErrAllocationExhausted):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Could not allocate a number, please retry")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
