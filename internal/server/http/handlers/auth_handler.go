package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/server/http/dto"
	"github.com/chowline/chowline/internal/server/http/middleware"
)

// AuthHandler processes registration, login and profile management.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/users/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.facade.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Login handles POST /api/users/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.Status(http.StatusUnauthorized)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Profile handles GET /api/users/me.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.facade.Profile(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(user))
}

// AddAddress handles POST /api/users/me/addresses.
func (h *AuthHandler) AddAddress(c *gin.Context) {
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	addr, err := h.facade.AddAddress(c.Request.Context(), CurrentUserID(c), model.Address{
		Label:    req.Label,
		Street:   req.Street,
		City:     req.City,
		Location: model.Coordinate{Lat: req.Lat, Lng: req.Lng},
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusUnauthorized)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusCreated, toAddressResponse(*addr))
}

func toProfileResponse(user *model.User) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Addresses: make([]dto.AddressResponse, 0, len(user.Addresses)),
	}
	for _, addr := range user.Addresses {
		resp.Addresses = append(resp.Addresses, toAddressResponse(addr))
	}
	return resp
}

func toAddressResponse(addr model.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:     addr.ID,
		Label:  addr.Label,
		Street: addr.Street,
		City:   addr.City,
		Lat:    addr.Location.Lat,
		Lng:    addr.Location.Lng,
	}
}
