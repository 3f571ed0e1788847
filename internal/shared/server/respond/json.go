// Package respond standardizes handler responses: success payloads go
// through JSON, failures through Error with the shared envelope. The health
// endpoint also uses JSON with a non-200 status for the unhealthy case.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}
