package api

import (
	"net/http" // HTTP status codes
	"time"     // Time filters

	"wallet_ledger/internal/cache"  // Read-through cache
	"wallet_ledger/internal/domain" // Importing domain models
	"wallet_ledger/internal/ledger" // Ledger engine

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money type
)

// TransactionCreateRequest is the body of POST /transactions/
type TransactionCreateRequest struct {
	UserID          uint            `json:"user_id" binding:"required"`          // Wallet owner
	WalletID        uint            `json:"wallet_id" binding:"required"`        // Must be the owner's wallet
	TransactionType string          `json:"transaction_type" binding:"required"` // CREDIT or DEBIT
	Amount          decimal.Decimal `json:"amount"`                              // Positive, two decimals at most
	Description     string          `json:"description"`                         // Free text
}

// GetTransactionsHandler returns a user's transactions in creation order, served from cache when possible
func GetTransactionsHandler(l *ledger.Engine, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "user_id")
		if !ok {
			return
		}
		ctx := c.Request.Context()           // Request scoped context
		cacheKey := cache.HistoryKey(userID) // Cache key for history
		var txs []domain.Transaction
		// Try to get from cache
		if found, err := store.Get(ctx, cacheKey, &txs); err == nil && found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, txs) // Return cached history
			return
		}
		txs, err := l.GetTransactions(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		// Cache the history unless a concurrent write already appended to it
		refill(ctx, store, cacheKey, txs, func() bool {
			n, err := l.CountTransactions(ctx, userID)
			return err != nil || n != int64(len(txs))
		})
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, txs)
	}
}

// CreateTransactionHandler applies a raw CREDIT or DEBIT to a wallet
func CreateTransactionHandler(l *ledger.Engine, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransactionCreateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request: "+err.Error())
			return
		}
		t, err := l.RecordTransaction(c.Request.Context(), ledger.TransactionCreate{
			UserID:      req.UserID,
			WalletID:    req.WalletID,
			Type:        domain.TransactionType(req.TransactionType),
			Amount:      req.Amount,
			Description: req.Description,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), store, req.UserID) // Invalidate wallet and history cache
		c.JSON(http.StatusOK, t)
	}
}

// ListTransactionsHandler returns all transactions, with optional filtering by user, type, or date
func ListTransactionsHandler(l *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := queryID(c, "user_id") // Filter by user ID
		if !ok {
			return
		}
		filter := ledger.TransactionFilter{
			UserID:   userID,
			Type:     domain.TransactionType(c.Query("type")), // Filter by transaction type
			Page:     queryInt(c, "page"),                     // Page number
			PageSize: queryInt(c, "page_size"),                // Page size
		}
		// Date filters must be RFC3339 timestamps
		for name, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
			v := c.Query(name)
			if v == "" {
				continue
			}
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				badRequest(c, "Invalid "+name+" timestamp, expected RFC3339")
				return
			}
			*dst = ts.UTC() // Stored timestamps are UTC
		}
		if filter.Type != "" && !filter.Type.Valid() {
			badRequest(c, "Invalid transaction type")
			return
		}
		page, err := l.ListTransactions(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"transactions": page.Items,      // List of transactions
			"page":         page.Page,       // Current page
			"page_size":    page.PageSize,   // Page size
			"total":        page.Total,      // Total number of transactions
			"total_pages":  page.TotalPages, // Total pages
		})
	}
}
