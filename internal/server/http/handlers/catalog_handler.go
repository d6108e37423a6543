package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/server/http/dto"
)

// CatalogHandler serves restaurant browsing and operator administration.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// List handles GET /api/restaurants.
func (h *CatalogHandler) List(c *gin.Context) {
	restaurants, err := h.facade.Restaurants(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.RestaurantResponse, 0, len(restaurants))
	for _, r := range restaurants {
		response = append(response, toRestaurantResponse(r))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/restaurants/:id. The menu carries both base and
// effective prices so clients can show applied taxes and discounts.
func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	rest, menu, err := h.facade.Restaurant(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	response := dto.RestaurantDetailResponse{
		RestaurantResponse: toRestaurantResponse(*rest),
		Menu:               make([]dto.MenuEntryResponse, 0, len(menu)),
	}
	for _, entry := range menu {
		response.Menu = append(response.Menu, dto.MenuEntryResponse{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			BasePrice:   entry.BasePrice,
			FinalPrice:  entry.FinalPrice,
			Currency:    entry.Currency,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Create handles POST /api/admin/restaurants.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	rest := model.Restaurant{
		Name:     req.Name,
		Category: req.Category,
		Location: model.Coordinate{Lat: req.Location.Lat, Lng: req.Location.Lng},
		Menu:     make([]model.MenuItem, 0, len(req.Menu)),
	}
	for _, item := range req.Menu {
		rest.Menu = append(rest.Menu, toMenuItem(item))
	}
	for pos, rule := range req.PricingRules {
		rest.PricingRules = append(rest.PricingRules, toPricingRule(rule, pos))
	}

	created, err := h.facade.CreateRestaurant(c.Request.Context(), rest)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusCreated, toRestaurantResponse(*created))
}

// AddMenuItem handles POST /api/admin/restaurants/:id/menu.
func (h *CatalogHandler) AddMenuItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	var req dto.MenuItemPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	item, err := h.facade.AddMenuItem(c.Request.Context(), id, toMenuItem(req))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusCreated, dto.MenuEntryResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		BasePrice:   item.BasePrice,
		FinalPrice:  item.BasePrice,
		Currency:    item.Currency,
	})
}

// SetPricingRules handles PUT /api/admin/restaurants/:id/pricing-rules.
func (h *CatalogHandler) SetPricingRules(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	var req dto.SetPricingRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	rules := make([]model.PricingRule, 0, len(req.Rules))
	for pos, rule := range req.Rules {
		rules = append(rules, toPricingRule(rule, pos))
	}

	if err := h.facade.SetPricingRules(c.Request.Context(), id, rules); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func toRestaurantResponse(r model.Restaurant) dto.RestaurantResponse {
	return dto.RestaurantResponse{
		ID:       r.ID,
		Name:     r.Name,
		Category: r.Category,
		Location: dto.CoordinatePayload{Lat: r.Location.Lat, Lng: r.Location.Lng},
	}
}

func toMenuItem(p dto.MenuItemPayload) model.MenuItem {
	return model.MenuItem{
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		Currency:    p.Currency,
	}
}

func toPricingRule(p dto.PricingRulePayload, position int) model.PricingRule {
	return model.PricingRule{
		Type:     model.RuleType(p.Type),
		Strategy: model.RuleStrategy(p.Strategy),
		Value:    p.Value,
		Position: position,
	}
}
