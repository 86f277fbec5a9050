package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"

	EnvSessionTTL          = "BOOKING_SESSION_TTL"
	EnvGuestCookieName     = "GUEST_COOKIE_NAME"
	EnvSecretCookieName    = "SESSION_COOKIE_NAME"
	EnvGuestCookieTTL      = "GUEST_COOKIE_TTL"
	EnvCookieSecure        = "COOKIE_SECURE"
	EnvSeatMapCacheTTL     = "SEAT_MAP_CACHE_TTL"
	EnvSweepInterval       = "SWEEP_INTERVAL"
	EnvDefaultCurrencyCode = "DEFAULT_CURRENCY"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
