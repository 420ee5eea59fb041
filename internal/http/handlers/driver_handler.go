// README: Driver profile and availability handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/driver"
	"hail/internal/types"
)

type DriverHandler struct {
	drivers *driver.Service
}

func NewDriverHandler(drivers *driver.Service) *DriverHandler {
	return &DriverHandler{drivers: drivers}
}

type createProfileReq struct {
	UserID        int64  `json:"user_id" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	VehicleMake   string `json:"vehicle_make" binding:"required"`
	VehicleModel  string `json:"vehicle_model" binding:"required"`
	VehicleYear   int    `json:"vehicle_year" binding:"required"`
	VehiclePlate  string `json:"vehicle_plate" binding:"required"`
}

func (h *DriverHandler) CreateProfile(c *gin.Context) {
	var req createProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.drivers.CreateProfile(c.Request.Context(), driver.CreateProfileCommand{
		UserID:        types.ID(req.UserID),
		LicenseNumber: req.LicenseNumber,
		VehicleMake:   req.VehicleMake,
		VehicleModel:  req.VehicleModel,
		VehicleYear:   req.VehicleYear,
		VehiclePlate:  req.VehiclePlate,
	})
	if err != nil {
		writeDriverError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

// GetProfile looks up the profile by user id and returns null (200) when the
// user has no driver profile.
func (h *DriverHandler) GetProfile(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.drivers.GetProfileForUser(c.Request.Context(), userID)
	if err != nil {
		writeDriverError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

type setStatusReq struct {
	Status string `json:"status" binding:"required,oneof=available unavailable busy"`
}

func (h *DriverHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req setStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.drivers.SetStatus(c.Request.Context(), id, driver.Status(req.Status))
	if err != nil {
		writeDriverError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}
