// internal/api/response.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recruitment-chat/internal/common/errors"
)

// Envelope is the uniform response shape: data on success, error text on
// failure. Handlers never write raw payloads.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

func respondError(c *gin.Context, err error) {
	c.JSON(errors.HTTPStatus(err), Envelope{Success: false, Error: errors.PublicMessage(err)})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: message})
}
