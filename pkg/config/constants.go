package config

const (
	EnvPrefix = "AGIMPORTS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "AGIMPORTS_APP_ENV"
	EnvPort       = "AGIMPORTS_APP_PORT"
	EnvDBDSN      = "AGIMPORTS_DB_DSN"
	EnvDBHost     = "AGIMPORTS_DB_HOST"
	EnvDBUser     = "AGIMPORTS_DB_USER"
	EnvDBName     = "AGIMPORTS_DB_NAME"
	EnvRedisURL   = "AGIMPORTS_REDIS_URL"
	EnvJWTSecret  = "AGIMPORTS_JWT_SECRET"
	EnvJWTIssuer  = "AGIMPORTS_JWT_ISSUER"
	EnvJWTExpMins = "AGIMPORTS_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
