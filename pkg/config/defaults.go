package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "terra"
	DefaultMongoConnTimeout  = 30 * time.Second
	DefaultMongoTransactions = true

	DefaultPort = "3000"

	DefaultAdminToken = "admin-token"

	DefaultUploadsDir          = "uploads"
	DefaultMaxUploadSize       = 10 * 1024 * 1024 // 10MB
	DefaultMenuExclusiveUpload = false

	DefaultCORSAllowedOrigins = "*"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDefaultBookingTime = "19:30:00"
	DefaultMaxGuests          = 20
	DefaultBookingLockTTL     = 10 * time.Second

	DefaultLogLevel = "info"
)
