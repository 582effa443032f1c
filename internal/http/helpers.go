package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tmills/rosterd/internal/auth"
	"github.com/tmills/rosterd/internal/authz"
	"github.com/tmills/rosterd/internal/configs"
	"github.com/tmills/rosterd/internal/database/schedule"
)

// abortWithError maps domain errors onto transport status codes. Business
// failures pass through with their message; anything unrecognized is an
// infrastructure error and surfaces generically.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthorized),
		errors.Is(err, auth.ErrTokenNotFound),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrInvalidPassword):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, authz.ErrForbidden),
		errors.Is(err, authz.ErrIdentityMismatch):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, configs.ErrNotFound),
		errors.Is(err, schedule.ErrNotFound),
		errors.Is(err, auth.ErrAccountNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrAccountExists):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailRequired),
		errors.Is(err, auth.ErrEmailInvalid),
		errors.Is(err, auth.ErrPasswordRequired),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, auth.ErrInvalidRole):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
