package api

import (
	"net/http" // HTTP status codes

	"wallet_ledger/internal/cache"  // Cache invalidation
	"wallet_ledger/internal/ledger" // Ledger engine

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money type
)

// TransferCreateRequest is the body of POST /transfer
type TransferCreateRequest struct {
	SenderUserID    uint            `json:"sender_user_id" binding:"required"`    // Paying user
	RecipientUserID uint            `json:"recipient_user_id" binding:"required"` // Receiving user
	Amount          decimal.Decimal `json:"amount"`                               // Positive, two decimals at most
	Description     string          `json:"description"`                          // Free text
}

// CreateTransferHandler moves money between two users atomically
func CreateTransferHandler(l *ledger.Engine, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransferCreateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request: "+err.Error())
			return
		}
		res, err := l.CreateTransfer(c.Request.Context(), ledger.TransferRequest{
			SenderUserID:    req.SenderUserID,
			RecipientUserID: req.RecipientUserID,
			Amount:          req.Amount,
			Description:     req.Description,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), store, req.SenderUserID, req.RecipientUserID) // Both wallets changed
		c.JSON(http.StatusCreated, res)
	}
}

// GetTransferHandler returns one transfer by id
func GetTransferHandler(l *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := l.GetTransfer(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}
