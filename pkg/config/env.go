package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "WORKSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "WORKSHOP_APP_ENV"
	EnvPort                   = "WORKSHOP_APP_PORT"
	EnvDBDSN                  = "WORKSHOP_DB_DSN"
	EnvDBHost                 = "WORKSHOP_DB_HOST"
	EnvDBUser                 = "WORKSHOP_DB_USER"
	EnvDBName                 = "WORKSHOP_DB_NAME"
	EnvRedisURL               = "WORKSHOP_REDIS_URL"
	EnvJWTSecret              = "WORKSHOP_JWT_SECRET"
	EnvJWTIssuer              = "WORKSHOP_JWT_ISSUER"
	EnvJWTExpMins             = "WORKSHOP_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "WORKSHOP_REFRESH_TOKEN_TTL_MINUTES"
	EnvTaxRate                = "WORKSHOP_TAX_RATE"
	EnvGCPProjectID           = "WORKSHOP_GCP_PROJECT_ID"
	EnvPubSubDomainTopic      = "WORKSHOP_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubDomainSub        = "WORKSHOP_PUBSUB_DOMAIN_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
