package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/server/http/dto"
	"github.com/chowline/chowline/internal/usecase"
)

const idempotencyKeyHeader = "Idempotency-Key"

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	items := make([]usecase.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.CartItem{Name: item.Name, Quantity: item.Quantity})
	}

	order, err := h.facade.PlaceOrder(
		c.Request.Context(),
		CurrentUserID(c),
		req.RestaurantID,
		items,
		c.GetHeader(idempotencyKeyHeader),
	)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusUnauthorized)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return dto.OrderResponse{
		ID:           order.ID,
		RestaurantID: order.RestaurantID,
		Items:        items,
		Total:        order.Total,
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt,
	}
}
