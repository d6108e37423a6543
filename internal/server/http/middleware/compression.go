package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DecompressRequest swaps the request body for a gzip reader when the client
// sent Content-Encoding: gzip. A body that is not actually gzip yields 400.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		encoding := c.GetHeader("Content-Encoding")
		if !strings.Contains(strings.ToLower(encoding), "gzip") {
			c.Next()
			return
		}

		body := c.Request.Body
		defer body.Close()

		zr, err := gzip.NewReader(body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		defer zr.Close()

		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Request.Body = io.NopCloser(zr)
		c.Next()
	}
}
