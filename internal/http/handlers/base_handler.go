// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/driver"
	"hail/internal/modules/ride"
	"hail/internal/modules/user"
	"hail/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func pathID(c *gin.Context, name string) (types.ID, bool) {
	id, err := types.ParseID(c.Param(name))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func writeRideError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrNotFound), errors.Is(err, ride.ErrRiderNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ride.ErrInvalidTransition),
		errors.Is(err, ride.ErrRideUnavailable),
		errors.Is(err, ride.ErrDriverUnavailable):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ride.ErrFareNotAllowed):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeDriverError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, driver.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, driver.ErrNotFound), errors.Is(err, driver.ErrUserNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, driver.ErrAlreadyExists):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, driver.ErrPermissionDenied):
		writeError(c, http.StatusForbidden, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, user.ErrAlreadyExists):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
