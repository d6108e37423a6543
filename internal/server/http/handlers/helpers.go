package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/chowline/chowline/internal/server/http/middleware"
)

// CurrentUserID returns the user id stored by the auth middleware, or zero
// when the request carries no authenticated user.
func CurrentUserID(c *gin.Context) int64 {
	v, _ := c.Get(middleware.UserIDContextKey)
	id, _ := v.(int64)
	return id
}
