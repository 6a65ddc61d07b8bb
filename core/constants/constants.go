package constants

const (
	// Database connection pool
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes

	// JWT
	AccessTokenTTLHours = 24

	// Redis key prefixes
	RedisKeyTokenBlacklist = "auth:blacklist:"

	// Asynq
	QueueDefault         = "default"
	TaskTypeActivityLog  = "activity:log"
	ActivityTaskMaxRetry = 5

	// Pagination defaults
	DefaultPageSize = 20
	MaxPageSize     = 100
)
