package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID         = "userId"
	configTokenHeader = "X-Config-Token"
)

func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userId, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxUserID, userId)
	c.Next()
}

// configScopeMiddleware admits requests carrying the config token issued by
// POST /api/v1/config/pin for the same operator, while the section is unlocked.
func (h *Handler) configScopeMiddleware(c *gin.Context) {
	token := strings.TrimSpace(c.GetHeader(configTokenHeader))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "missing " + configTokenHeader + " header",
		})
		return
	}

	userId, err := h.services.ParseConfigToken(token)
	if err != nil || userId != c.GetInt(ctxUserID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "invalid or expired config token",
		})
		return
	}

	if !h.services.Config.View().Unlocked {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "configuration is locked",
		})
		return
	}
	c.Next()
}
