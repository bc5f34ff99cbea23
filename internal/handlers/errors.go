package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vela-casino/internal/models"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNoSelection),
		errors.Is(err, models.ErrInvalidSelection),
		errors.Is(err, models.ErrBetOutOfRange),
		errors.Is(err, models.ErrInvalidUsername),
		errors.Is(err, models.ErrInvalidTheme):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrRoundNotFound),
		errors.Is(err, models.ErrUnknownGame):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSessionBusy),
		errors.Is(err, models.ErrRoundSettled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	c.JSON(statusFor(err), gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"details": err.Error(),
	})
}
