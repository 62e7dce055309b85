package config

// EnvPrefix is handed to envconfig; every field also declares its full
// variable name so lookups fall back to the bare CELLAR_* key.
const EnvPrefix = "CELLAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreDriverMemory = "memory"
	StoreDriverSQL    = "sql"
	StoreDriverRedis  = "redis"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	EnvAppEnv       = "CELLAR_APP_ENV"
	EnvLogLevel     = "CELLAR_LOG_LEVEL"
	EnvLogWarnStack = "CELLAR_LOG_WARN_STACK"

	EnvStoreDriver = "CELLAR_STORE_DRIVER"

	EnvDBDriver   = "CELLAR_DB_DRIVER"
	EnvDBDSN      = "CELLAR_DB_DSN"
	EnvDBHost     = "CELLAR_DB_HOST"
	EnvDBPort     = "CELLAR_DB_PORT"
	EnvDBUser     = "CELLAR_DB_USER"
	EnvDBPassword = "CELLAR_DB_PASSWORD"
	EnvDBName     = "CELLAR_DB_NAME"
	EnvDBSSLMode  = "CELLAR_DB_SSLMODE"

	EnvRedisURL       = "CELLAR_REDIS_URL"
	EnvRedisAddr      = "CELLAR_REDIS_ADDR"
	EnvRedisNamespace = "CELLAR_REDIS_NAMESPACE"

	EnvLowStockThreshold  = "CELLAR_LOW_STOCK_THRESHOLD"
	EnvStrictProductMatch = "CELLAR_STRICT_PRODUCT_MATCH"

	EnvReportOutputPath = "CELLAR_REPORT_OUTPUT_PATH"
	EnvAutoMigrate      = "CELLAR_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
