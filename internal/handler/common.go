package handler

import (
	"net/http"
	"strconv"

	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

// paramID parses a positive integer path parameter, answering 400 itself on
// bad input.
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}

// abortError maps a service error to its HTTP status and writes the envelope.
func abortError(c *gin.Context, err error) {
	status, body := response.FromError(err)
	c.JSON(status, body)
}
