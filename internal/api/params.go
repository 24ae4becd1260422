package api

import (
	"context" // Context for cache operations
	"strconv" // String conversion

	"wallet_ledger/internal/cache" // Cache keys

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money parsing
	"github.com/sirupsen/logrus"    // Logging library
)

// pathID parses a positive numeric path parameter, answering 400 when it is not one
func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// queryInt parses an optional integer query parameter
func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0 // Absent or malformed, let the ledger apply its default
	}
	return v
}

// queryID parses an optional positive id query parameter, 0 when absent; a malformed value answers 400
func queryID(c *gin.Context, name string) (uint, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true // No filter
	}
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryAmount parses the required amount query parameter
func queryAmount(c *gin.Context) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		badRequest(c, "Invalid amount")
		return decimal.Zero, false
	}
	return amount, true
}

// invalidate drops cached balances and histories of the given users after a committed change.
// It runs even when the request context is already cancelled.
func invalidate(ctx context.Context, store cache.Cache, userIDs ...uint) {
	ctx = context.WithoutCancel(ctx) // The change is committed, the cache must follow
	if err := store.Delete(ctx, cache.UserKeys(userIDs...)...); err != nil {
		// Entries expire on their own; a failed delete only delays freshness
		logrus.WithFields(logrus.Fields{
			"user_ids": userIDs,     // Affected users
			"error":    err.Error(), // Error message
		}).Warn("Cache invalidation failed")
	}
}

// refill caches value under key, then drops it again if changed reports that the
// store moved on since value was read. Writers invalidate after commit, so a write
// committed before the recheck is caught here and a later one deletes the entry itself.
func refill(ctx context.Context, store cache.Cache, key string, value any, changed func() bool) {
	ctx = context.WithoutCancel(ctx)
	if err := store.Set(ctx, key, value); err != nil {
		return // Nothing cached
	}
	if changed() {
		_ = store.Delete(ctx, key) // Possibly stale, next read refills
	}
}
