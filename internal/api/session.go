package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-companion/backend/internal/middleware"
)

// SessionState returns the caller's page state
func SessionState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"session_id": middleware.SessionID(c),
		"state":      middleware.PageState(c),
	})
}
