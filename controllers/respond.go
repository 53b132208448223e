package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	services "github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

// respondServiceError maps service-layer failures onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrAlreadyRegistered.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, services.ErrReconcileNeeded):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "the change was only partially recorded; please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
