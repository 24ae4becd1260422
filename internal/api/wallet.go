package api

import (
	"context"  // Request context
	"net/http" // HTTP status codes

	"wallet_ledger/internal/cache"  // Read-through cache
	"wallet_ledger/internal/ledger" // Ledger engine

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money type
)

// BalanceResponse is the body of GET /wallet/{user_id}/balance
type BalanceResponse struct {
	UserID  uint            `json:"user_id"` // Wallet owner
	Balance decimal.Decimal `json:"balance"` // Current balance
	Cached  bool            `json:"cached"`  // Served from cache
}

// MovementResponse summarizes a committed deposit or withdrawal
type MovementResponse struct {
	Message       string          `json:"message"`        // Human readable outcome
	UserID        uint            `json:"user_id"`        // Wallet owner
	WalletID      uint            `json:"wallet_id"`      // Wallet
	TransactionID uint            `json:"transaction_id"` // Appended transaction
	Type          string          `json:"type"`           // CREDIT or DEBIT
	Amount        decimal.Decimal `json:"amount"`         // Moved amount
	NewBalance    decimal.Decimal `json:"new_balance"`    // Balance after the movement
	Description   string          `json:"description"`    // Wallet description
}

// GetBalanceHandler returns the wallet balance, served from cache when possible
func GetBalanceHandler(l *ledger.Engine, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "user_id")
		if !ok {
			return
		}
		ctx := c.Request.Context()          // Request scoped context
		cacheKey := cache.WalletKey(userID) // Cache key for wallet
		var resp BalanceResponse
		// Try to get from cache
		if found, err := store.Get(ctx, cacheKey, &resp); err == nil && found {
			resp.Cached = true
			c.JSON(http.StatusOK, resp) // Return cached balance
			return
		}
		// If not in cache, fetch from DB
		wallet, err := l.GetWallet(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		resp = BalanceResponse{UserID: userID, Balance: wallet.Balance}
		// Cache the balance unless a concurrent write already changed it
		refill(ctx, store, cacheKey, resp, func() bool {
			current, err := l.GetWallet(ctx, userID)
			return err != nil || !current.Balance.Equal(wallet.Balance)
		})
		c.JSON(http.StatusOK, resp) // Return balance
	}
}

// movement is a single-wallet ledger operation such as Deposit or Withdraw
type movement func(ctx context.Context, userID uint, amount decimal.Decimal, description string) (*ledger.Receipt, error)

// movementHandler builds the add-money and withdraw-money handlers
func movementHandler(move movement, store cache.Cache, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "user_id")
		if !ok {
			return
		}
		amount, ok := queryAmount(c) // Amount from query string
		if !ok {
			return
		}
		receipt, err := move(c.Request.Context(), userID, amount, c.Query("description"))
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), store, userID) // Invalidate wallet and history cache
		c.JSON(http.StatusOK, MovementResponse{
			Message:       message,
			UserID:        userID,
			WalletID:      receipt.Wallet.ID,
			TransactionID: receipt.Transaction.ID,
			Type:          string(receipt.Transaction.Type),
			Amount:        receipt.Transaction.Amount,
			NewBalance:    receipt.Wallet.Balance,
			Description:   receipt.Wallet.Description,
		})
	}
}

// AddMoneyHandler credits the wallet
func AddMoneyHandler(l *ledger.Engine, store cache.Cache) gin.HandlerFunc {
	return movementHandler(l.Deposit, store, "Money added successfully")
}

// WithdrawMoneyHandler debits the wallet
func WithdrawMoneyHandler(l *ledger.Engine, store cache.Cache) gin.HandlerFunc {
	return movementHandler(l.Withdraw, store, "Money withdrawn successfully")
}
