package config

// EnvPrefix is the envconfig namespace for every Stockmaster variable.
const EnvPrefix = "STOCKMASTER"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "STOCKMASTER_APP_ENV"
	EnvPort   = "STOCKMASTER_APP_PORT"

	EnvDBDSN  = "STOCKMASTER_DB_DSN"
	EnvDBHost = "STOCKMASTER_DB_HOST"
	EnvDBUser = "STOCKMASTER_DB_USER"
	EnvDBName = "STOCKMASTER_DB_NAME"

	EnvJWTSecret = "STOCKMASTER_JWT_SECRET"
	EnvJWTIssuer = "STOCKMASTER_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
