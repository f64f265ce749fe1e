package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	Service     ServiceConfig
	DB          DBConfig
	Redis       RedisConfig
	GCP         GCPConfig
	PubSub      PubSubConfig
	Webhook     WebhookConfig
	Marketplace MarketplaceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NFTTRANSFERS_APP_ENV" required:"true"`
	Port         string `envconfig:"NFTTRANSFERS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NFTTRANSFERS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NFTTRANSFERS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"NFTTRANSFERS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"NFTTRANSFERS_DB_DSN"`
	Driver string `envconfig:"NFTTRANSFERS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NFTTRANSFERS_DB_HOST"`
	LegacyPort     int    `envconfig:"NFTTRANSFERS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NFTTRANSFERS_DB_USER"`
	LegacyPassword string `envconfig:"NFTTRANSFERS_DB_PASSWORD"`
	LegacyName     string `envconfig:"NFTTRANSFERS_DB_NAME"`
	LegacySSLMode  string `envconfig:"NFTTRANSFERS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NFTTRANSFERS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NFTTRANSFERS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NFTTRANSFERS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NFTTRANSFERS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NFTTRANSFERS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NFTTRANSFERS_REDIS_ADDR"`
	Password     string        `envconfig:"NFTTRANSFERS_REDIS_PASSWORD"`
	DB           int           `envconfig:"NFTTRANSFERS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NFTTRANSFERS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NFTTRANSFERS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NFTTRANSFERS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NFTTRANSFERS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NFTTRANSFERS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"NFTTRANSFERS_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"NFTTRANSFERS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"NFTTRANSFERS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	TransfersTopic        string `envconfig:"NFTTRANSFERS_PUBSUB_TRANSFERS_TOPIC" required:"true"`
	TransfersSubscription string `envconfig:"NFTTRANSFERS_PUBSUB_TRANSFERS_SUBSCRIPTION" required:"true"`
}

// WebhookConfig guards the indexer callback endpoint.
type WebhookConfig struct {
	AuthSecret string `envconfig:"NFTTRANSFERS_GOLDSKY_AUTH_SECRET" required:"true"`
	ChainID    string `envconfig:"NFTTRANSFERS_CHAIN_ID" default:"1"`
}

// MarketplaceConfig carries order-book policy knobs.
type MarketplaceConfig struct {
	// OwnerInheritsOffers re-points every open offer's taker at the token's
	// new holder on transfer. Injected at construction, never mutated.
	OwnerInheritsOffers bool          `envconfig:"NFTTRANSFERS_OWNER_INHERITS_OFFERS" default:"true"`
	ChainAllowlist      []string      `envconfig:"NFTTRANSFERS_CHAIN_ALLOWLIST" default:"1"`
	DedupeTTL           time.Duration `envconfig:"NFTTRANSFERS_TRANSFER_DEDUPE_TTL" default:"24h"`
	UsernameCacheTTL    time.Duration `envconfig:"NFTTRANSFERS_USERNAME_CACHE_TTL" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
