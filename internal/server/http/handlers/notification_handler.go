package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chowline/chowline/internal/server/http/dto"
)

// NotificationHandler serves the per-user notification feed.
type NotificationHandler struct {
	facade NotificationFacade
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(facade NotificationFacade) *NotificationHandler {
	return &NotificationHandler{facade: facade}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	feed, err := h.facade.Notifications(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(feed) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.NotificationResponse, 0, len(feed))
	for _, n := range feed {
		response = append(response, dto.NotificationResponse{
			ID:         n.ID,
			Title:      n.Title,
			Message:    n.Message,
			RoutingKey: n.RoutingKey,
			SentAt:     n.SentAt,
		})
	}
	c.JSON(http.StatusOK, response)
}
