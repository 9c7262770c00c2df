package handlers

import (
	"errors"
	"log"
	"net/http"

	"photoquiz/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the HTTP taxonomy. Validation and
// authorization failures carry their specific message; anything upstream
// is logged in full and surfaced as a generic retryable message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

// currentUser returns the authenticated user id set by the auth middleware.
func currentUser(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID.(string), true
}
