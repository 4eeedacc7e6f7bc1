package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDFromContext reads the correlation id installed by the RequestID
// middleware, minting one for paths mounted without it.
func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Set("request_id", id)
	return id
}

func userIDFromContext(c *gin.Context) *string {
	if userID := c.GetString("userID"); userID != "" {
		return &userID
	}
	return nil
}
