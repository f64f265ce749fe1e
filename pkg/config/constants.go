package config

// EnvPrefix is passed to envconfig; explicit tags keep variable names stable.
const EnvPrefix = "nfttransfers"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "NFTTRANSFERS_APP_ENV"
	EnvPort     = "NFTTRANSFERS_APP_PORT"
	EnvLogLevel = "NFTTRANSFERS_LOG_LEVEL"

	EnvDBDSN  = "NFTTRANSFERS_DB_DSN"
	EnvDBHost = "NFTTRANSFERS_DB_HOST"
	EnvDBUser = "NFTTRANSFERS_DB_USER"
	EnvDBName = "NFTTRANSFERS_DB_NAME"

	EnvRedisURL = "NFTTRANSFERS_REDIS_URL"

	EnvGCPProjectID = "NFTTRANSFERS_GCP_PROJECT_ID"

	EnvPubSubTransfersTopic = "NFTTRANSFERS_PUBSUB_TRANSFERS_TOPIC"
	EnvPubSubTransfersSub   = "NFTTRANSFERS_PUBSUB_TRANSFERS_SUBSCRIPTION"

	EnvGoldskyAuthSecret = "NFTTRANSFERS_GOLDSKY_AUTH_SECRET"
	EnvChainID           = "NFTTRANSFERS_CHAIN_ID"

	EnvOwnerInheritsOffers = "NFTTRANSFERS_OWNER_INHERITS_OFFERS"
	EnvChainAllowlist      = "NFTTRANSFERS_CHAIN_ALLOWLIST"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
