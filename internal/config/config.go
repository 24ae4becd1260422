package config

import (
	"fmt"     // For DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Supported store drivers
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds the application configuration
type Config struct {
	AppPort           string        // Application port
	DBDriver          string        // Store driver: mysql or sqlite
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	DBPath            string        // SQLite database file
	DBMaxOpenConns    int           // Connection pool size
	DBMaxIdleConns    int           // Idle connections kept in the pool
	DBConnMaxLifetime time.Duration // Maximum lifetime of a pooled connection
	DBTimeout         time.Duration // MySQL dial/read/write timeout
	RequestTimeout    time.Duration // Deadline applied to every request context
	RedisAddr         string        // Redis server address, empty disables caching
	RedisPass         string        // Redis password
	RedisDB           int           // Redis database number
	CacheTTL          time.Duration // TTL of cached balances and histories
	LogLevel          string        // logrus level
	LogFormat         string        // text or json
	BcryptCost        int           // Cost used when hashing passwords
	MetricsEnabled    bool          // Expose /metrics
	AutoMigrate       bool          // Migrate the schema when the server starts
	IsProd            bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:           getEnv("APP_PORT", "8080"),                         // Application port
		DBDriver:          getEnv("DB_DRIVER", DriverMySQL),                   // Store driver
		DBUser:            os.Getenv("DB_USER"),                               // Database user
		DBPassword:        os.Getenv("DB_PASSWORD"),                           // Database password
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),                     // Database host
		DBPort:            getEnv("DB_PORT", "3306"),                          // Database port
		DBName:            os.Getenv("DB_NAME"),                               // Database name
		DBPath:            getEnv("DB_PATH", "wallet.db"),                     // SQLite file
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),                    // Pool size
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 25),                    // Idle pool size
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute), // Connection lifetime
		DBTimeout:         getDuration("DB_TIMEOUT", 5*time.Second),           // Store I/O timeout
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 10*time.Second),     // Request deadline
		RedisAddr:         os.Getenv("REDIS_ADDR"),                            // Redis server address
		RedisPass:         os.Getenv("REDIS_PASS"),                            // Redis password
		RedisDB:           getInt("REDIS_DB", 0),                              // Redis database number
		CacheTTL:          getDuration("CACHE_TTL", 60*time.Second),           // Cache TTL
		LogLevel:          getEnv("LOG_LEVEL", "info"),                        // Log level
		LogFormat:         getEnv("LOG_FORMAT", "text"),                       // Log format
		BcryptCost:        getInt("BCRYPT_COST", 10),                          // bcrypt.DefaultCost
		MetricsEnabled:    os.Getenv("METRICS_ENABLED") != "false",            // Metrics on unless disabled
		AutoMigrate:       os.Getenv("AUTO_MIGRATE") != "false",               // Migrate on start unless disabled
		IsProd:            os.Getenv("IS_PROD") == "true",                     // Is production environment
	}
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	t := c.DBTimeout.String()
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&timeout=%s&readTimeout=%s&writeTimeout=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, t, t, t)
}

// getEnv returns the variable or fallback when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt parses an integer variable, falling back on absence or parse error
func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getDuration parses a duration variable such as "5s"
func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
