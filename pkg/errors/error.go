package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// MarketNotFound represents an error when an order targets a trading pair
	// with no registered order book.
	MarketNotFound ErrorCode = "market_not_found"
	// MarketAlreadyExists represents an error when a trading pair is registered twice.
	MarketAlreadyExists ErrorCode = "market_already_exists"
	// OrderNotFound represents an error when an order ID is not present in the book.
	OrderNotFound ErrorCode = "order_not_found"
	// OrderAlreadyExists represents an error when an order ID is placed twice.
	OrderAlreadyExists ErrorCode = "order_already_exists"
	// InvalidOrderSize represents an error when an order size is not strictly positive.
	InvalidOrderSize ErrorCode = "invalid_order_size"
	// InvalidPrice represents an error when a limit price is not strictly positive.
	InvalidPrice ErrorCode = "invalid_price"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
)
