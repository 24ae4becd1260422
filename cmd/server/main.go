package main

import (
	"context"      // context package is needed for Redis operations
	"database/sql" // Isolation levels for units of work

	"wallet_ledger/internal/api"        // Custom package for API handlers
	"wallet_ledger/internal/cache"      // Read-through cache
	"wallet_ledger/internal/config"     // Custom package for configuration
	"wallet_ledger/internal/db"         // Store bootstrap
	"wallet_ledger/internal/ledger"     // Ledger engine
	"wallet_ledger/internal/metrics"    // Operation and HTTP metrics
	"wallet_ledger/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	setupLogger(cfg)

	// Connect to the store selected by DB_DRIVER
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			logrus.Fatalf("failed to migrate DB: %v", err)
		}
	}

	// Setup cache; without a Redis address every read goes to the store
	var store cache.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		store = cache.NewRedisCache(redisClient, cfg.CacheTTL)
	} else {
		logrus.Warn("REDIS_ADDR not set, caching disabled")
	}

	// Setup metrics
	var recorder metrics.Recorder = metrics.NoOpRecorder{}
	if cfg.MetricsEnabled {
		recorder = metrics.NewPrometheusRecorder("wallet")
	}

	// Setup ledger engine
	opts := []ledger.Option{
		ledger.WithLogger(logrus.StandardLogger()),
		ledger.WithMetrics(recorder),
		ledger.WithBcryptCost(cfg.BcryptCost),
	}
	if cfg.DBDriver == config.DriverMySQL {
		opts = append(opts, ledger.WithIsolation(sql.LevelReadCommitted)) // Row locks do the serializing
	}
	engine := ledger.NewEngine(gdb, opts...)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.New() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	r.Use(
		gin.Recovery(),                                    // Turn panics into 500
		middleware.RequestLogger(logrus.StandardLogger()), // Structured request log
		middleware.Timeout(cfg.RequestTimeout),            // Bound every store call
		middleware.Metrics(recorder),                      // Request counters and latency
	)

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(recorder.Handler())) // Prometheus scrape endpoint
	}
	api.RegisterRoutes(r, engine, store)

	logrus.WithFields(logrus.Fields{
		"port":   cfg.AppPort,  // Listening port
		"driver": cfg.DBDriver, // Store driver
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}

// setupLogger applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger
func setupLogger(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
