package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/server/http/dto"
)

// DeliveryHandler serves delivery tracking reads.
type DeliveryHandler struct {
	facade DeliveryFacade
}

// NewDeliveryHandler constructs DeliveryHandler.
func NewDeliveryHandler(facade DeliveryFacade) *DeliveryHandler {
	return &DeliveryHandler{facade: facade}
}

// Get handles GET /api/delivery/assignments/:orderID.
func (h *DeliveryHandler) Get(c *gin.Context) {
	a, err := h.facade.Delivery(c.Request.Context(), CurrentUserID(c), c.Param("orderID"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.AssignmentResponse{
		OrderID:  a.OrderID,
		Status:   string(a.Status),
		RiderID:  a.RiderID,
		Location: dto.CoordinatePayload{Lat: a.CurrentLocation.Lat, Lng: a.CurrentLocation.Lng},
		Progress: a.Progress,
		Updated:  a.UpdatedAt,
	})
}
