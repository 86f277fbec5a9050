package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "skyseat"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// DefaultSessionTTL is how long a booking session (and every seat hold it
	// owns) stays alive without activity. Each mutating request re-arms it.
	DefaultSessionTTL = 15 * time.Minute

	DefaultGuestCookieName  = "guest_id"
	DefaultSecretCookieName = "bs_token"
	DefaultGuestCookieTTL   = 30 * 24 * time.Hour

	DefaultSeatMapCacheTTL = 5 * time.Second
	DefaultSweepInterval   = time.Minute
	DefaultCurrency        = "VND"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
