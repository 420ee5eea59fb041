// README: Ride handlers: request, accept, status transitions, and queries.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/ride"
	"hail/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(rides *ride.Service) *RideHandler {
	return &RideHandler{rides: rides}
}

type createRideReq struct {
	RiderID   int64    `json:"rider_id" binding:"required"`
	Pickup    string   `json:"pickup_address" binding:"required"`
	Dest      string   `json:"destination_address" binding:"required"`
	PickupLat *float64 `json:"pickup_lat"`
	PickupLng *float64 `json:"pickup_lng"`
	DestLat   *float64 `json:"dest_lat"`
	DestLng   *float64 `json:"dest_lng"`
}

func (h *RideHandler) Create(c *gin.Context) {
	var req createRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	r, err := h.rides.Request(c.Request.Context(), ride.RequestCommand{
		RiderID:              types.ID(req.RiderID),
		PickupAddress:        req.Pickup,
		PickupLatitude:       req.PickupLat,
		PickupLongitude:      req.PickupLng,
		DestinationAddress:   req.Dest,
		DestinationLatitude:  req.DestLat,
		DestinationLongitude: req.DestLng,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

type acceptRideReq struct {
	DriverID int64 `json:"driver_id" binding:"required"`
}

func (h *RideHandler) Accept(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req acceptRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	r, err := h.rides.Accept(c.Request.Context(), ride.AcceptCommand{
		RideID:       id,
		DriverUserID: types.ID(req.DriverID),
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

type transitionReq struct {
	Status string       `json:"status" binding:"required"`
	Fare   *types.Money `json:"fare"`
}

func (h *RideHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Fare != nil && *req.Fare <= 0 {
		writeError(c, http.StatusBadRequest, "fare must be positive")
		return
	}
	r, err := h.rides.Transition(c.Request.Context(), ride.TransitionCommand{
		RideID: id,
		To:     ride.Status(req.Status),
		Fare:   req.Fare,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *RideHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.rides.Get(c.Request.Context(), id)
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *RideHandler) ListAvailable(c *gin.Context) {
	// driver_id is accepted but does not narrow the listing; every driver
	// sees every open request.
	driverID, _ := types.ParseID(c.Query("driver_id"))
	limit, offset := pageParams(c)
	rides, err := h.rides.ListAvailable(c.Request.Context(), driverID, limit, offset)
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rides)
}

func (h *RideHandler) ListForUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, offset := pageParams(c)
	rides, err := h.rides.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rides)
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
