package config

// EnvPrefix is handed to envconfig; every tag already carries the full name.
const EnvPrefix = "MINTALIST"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "MINTALIST_APP_ENV"
	EnvPort           = "MINTALIST_APP_PORT"
	EnvBaseURL        = "MINTALIST_BASE_URL"
	EnvDBDSN          = "MINTALIST_DB_DSN"
	EnvDBDriver       = "MINTALIST_DB_DRIVER"
	EnvDBHost         = "MINTALIST_DB_HOST"
	EnvDBUser         = "MINTALIST_DB_USER"
	EnvDBName         = "MINTALIST_DB_NAME"
	EnvDBPassword     = "MINTALIST_DB_PASSWORD"
	EnvRedisURL       = "MINTALIST_REDIS_URL"
	EnvJWTSecret      = "MINTALIST_IDENTITY_JWT_SECRET"
	EnvJWTIssuer      = "MINTALIST_IDENTITY_JWT_ISSUER"
	EnvHubAdminIDs    = "MINTALIST_HUB_ADMIN_USER_IDS"
	EnvHubAdminEmails = "MINTALIST_HUB_ADMIN_EMAILS"
	EnvPaymobMonthly  = "MINTALIST_PAYMOB_MONTHLY_CENTS"
	EnvPaymobAnnual   = "MINTALIST_PAYMOB_ANNUAL_CENTS"
	EnvRateLimitLimit = "MINTALIST_RATE_LIMIT_LIMIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
