package handlers

import (
	"errors"
	"net/http"

	"bakery-pos-api/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError translates domain errors into HTTP responses. This is the only
// place service errors and status codes meet.
func respondError(c *gin.Context, err error) {
	var validation *apperrors.ValidationError
	var notFound *apperrors.NotFoundError
	var invalidState *apperrors.InvalidStateError
	var insufficientStock *apperrors.InsufficientStockError

	switch {
	case errors.As(err, &validation):
		body := gin.H{"error": validation.Message}
		if len(validation.Fields) > 0 {
			body["fields"] = validation.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &insufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      insufficientStock.Error(),
			"product_id": insufficientStock.ProductID,
			"requested":  insufficientStock.Requested,
			"available":  insufficientStock.Available,
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &invalidState):
		body := gin.H{
			"error":          invalidState.Message,
			"current_status": invalidState.Current,
		}
		if len(invalidState.Valid) > 0 {
			body["valid_next_states"] = invalidState.Valid
		}
		c.JSON(http.StatusConflict, body)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
