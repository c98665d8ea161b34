package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvMongoTransactions = "MONGO_TRANSACTIONS"

	EnvRedisURL = "REDIS_URL"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvAdminToken = "ADMIN_TOKEN"

	EnvUploadsDir          = "UPLOADS_DIR"
	EnvMaxUploadSize       = "MAX_UPLOAD_SIZE"
	EnvMenuExclusiveUpload = "MENU_EXCLUSIVE_UPLOAD"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultBookingTime = "DEFAULT_BOOKING_TIME"
	EnvMaxGuests          = "MAX_GUESTS"
	EnvBookingLockTTL     = "BOOKING_LOCK_TTL"
)
