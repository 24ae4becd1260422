package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"wallet_ledger/internal/ledger" // Ledger error taxonomy

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// respondError maps a ledger error onto a status code and a structured body
func respondError(c *gin.Context, err error) {
	var ib *ledger.InsufficientBalanceError
	switch {
	case errors.As(err, &ib):
		// Business outcome, carries the figures the caller needs
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "Insufficient balance", // Error message
			"current_balance": ib.Current,             // Balance at the time of the attempt
			"required_amount": ib.Required,            // Requested amount
		})
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		// Unexpected store fault: log the detail, return a generic message
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,   // HTTP method
			"path":   c.Request.URL.Path, // Request path
			"error":  err.Error(),        // Error message
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// badRequest answers 400 with a message
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
