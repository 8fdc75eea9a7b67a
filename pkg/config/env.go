package config

// EnvPrefix is empty; struct tags carry the full variable names.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StateDriverSQLite = "sqlite"
	StateDriverRedis  = "redis"
	StateDriverMemory = "memory"
)

const (
	EnvAppEnv          = "STOREFRONT_APP_ENV"
	EnvLogLevel        = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat       = "STOREFRONT_LOG_FORMAT"
	EnvAPIBaseURL      = "STOREFRONT_API_BASE_URL"
	EnvAPITimeout      = "STOREFRONT_API_TIMEOUT"
	EnvStateDriver     = "STOREFRONT_STATE_DRIVER"
	EnvStateSQLitePath = "STOREFRONT_STATE_SQLITE_PATH"
	EnvRedisURL        = "STOREFRONT_REDIS_URL"
	EnvDiscountPercent = "STOREFRONT_DISCOUNT_DEFAULT_PERCENT"
	EnvMockPort        = "STOREFRONT_MOCK_PORT"
)
