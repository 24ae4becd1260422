package api

import (
	"net/http" // HTTP status codes

	"wallet_ledger/internal/cache"  // Read-through cache
	"wallet_ledger/internal/ledger" // Ledger engine

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRoutes mounts every ledger endpoint on r
func RegisterRoutes(r gin.IRouter, l *ledger.Engine, store cache.Cache) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"Hello": "World"})
	})
	r.GET("/health", HealthHandler(l))

	users := r.Group("/users")
	{
		users.POST("/", CreateUserHandler(l))             // Register user and wallet
		users.GET("/", ListUsersHandler(l))               // Paginated user list
		users.GET("/:id", GetUserHandler(l))              // Single user
		users.PUT("/:id", UpdateUserHandler(l))           // Partial update
		users.DELETE("/:id", DeleteUserHandler(l, store)) // Remove user, wallet and history
	}

	wallet := r.Group("/wallet/:user_id")
	{
		wallet.GET("/balance", GetBalanceHandler(l, store))
		wallet.POST("/add-money", AddMoneyHandler(l, store))
		wallet.POST("/withdraw-money", WithdrawMoneyHandler(l, store))
	}

	transactions := r.Group("/transactions")
	{
		transactions.GET("/", ListTransactionsHandler(l))
		transactions.POST("/", CreateTransactionHandler(l, store))
		transactions.GET("/:user_id", GetTransactionsHandler(l, store))
	}

	r.POST("/transfer", CreateTransferHandler(l, store))
	r.GET("/transfer/:id", GetTransferHandler(l))
}

// HealthHandler reports whether the store answers
func HealthHandler(l *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := l.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
