package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payways/internal/service"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "fields": verr.Fields})
	case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, service.ErrDuplicateCode):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCountryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrFlowBusy), errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrSubmissionAbandoned):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		telemetry.Logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
