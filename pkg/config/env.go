package config

// EnvPrefix is passed to envconfig; individual fields carry fully qualified
// names so the prefix only matters for untagged additions.
const EnvPrefix = "undeme"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names shared between Load, tooling, and tests.
const (
	EnvAppEnv   = "UNDEME_APP_ENV"
	EnvPort     = "UNDEME_APP_PORT"
	EnvLogLevel = "UNDEME_LOG_LEVEL"

	EnvDBDSN  = "UNDEME_DB_DSN"
	EnvDBHost = "UNDEME_DB_HOST"
	EnvDBUser = "UNDEME_DB_USER"
	EnvDBName = "UNDEME_DB_NAME"

	EnvRedisURL = "UNDEME_REDIS_URL"

	EnvJWTSecret = "UNDEME_JWT_SECRET"
	EnvJWTIssuer = "UNDEME_JWT_ISSUER"

	EnvSosWebhookURL      = "UNDEME_SOS_WEBHOOK_URL"
	EnvSosCooldownSeconds = "UNDEME_SOS_COOLDOWN_SECONDS"

	EnvWhatsAppToken         = "UNDEME_WHATSAPP_BUSINESS_TOKEN"
	EnvWhatsAppPhoneNumberID = "UNDEME_WHATSAPP_PHONE_NUMBER_ID"

	EnvAIAPIKey = "UNDEME_AI_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
