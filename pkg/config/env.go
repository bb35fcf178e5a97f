package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so the
// prefix only matters for fields without an envconfig tag.
const EnvPrefix = "FISHMARKET"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "FISHMARKET_APP_ENV"
	EnvPort     = "FISHMARKET_APP_PORT"
	EnvDBDSN    = "FISHMARKET_DB_DSN"
	EnvDBHost   = "FISHMARKET_DB_HOST"
	EnvDBUser   = "FISHMARKET_DB_USER"
	EnvDBName   = "FISHMARKET_DB_NAME"
	EnvRedisURL = "FISHMARKET_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
