package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Workshop      WorkshopConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Cron          CronConfig
	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Workshop.ParseTaxRate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WORKSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"WORKSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WORKSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WORKSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"WORKSHOP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"WORKSHOP_DB_DSN"`
	Driver string `envconfig:"WORKSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WORKSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"WORKSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WORKSHOP_DB_USER"`
	LegacyPassword string `envconfig:"WORKSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"WORKSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"WORKSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WORKSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WORKSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WORKSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WORKSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WORKSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WORKSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"WORKSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"WORKSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WORKSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WORKSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WORKSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WORKSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WORKSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"WORKSHOP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"WORKSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"WORKSHOP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"WORKSHOP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WORKSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WORKSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WORKSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WORKSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WORKSHOP_ARGON_KEY_LEN" default:"32"`
}

// WorkshopConfig carries the per-deployment business defaults.
type WorkshopConfig struct {
	// TaxRate is a decimal fraction, e.g. "0.13" for 13%.
	TaxRate           string `envconfig:"WORKSHOP_TAX_RATE" default:"0"`
	Currency          string `envconfig:"WORKSHOP_CURRENCY" default:"USD"`
	LowStockThreshold int    `envconfig:"WORKSHOP_LOW_STOCK_THRESHOLD" default:"5"`
}

// ParseTaxRate returns the configured tax rate as a decimal fraction.
func (w WorkshopConfig) ParseTaxRate() (decimal.Decimal, error) {
	raw := strings.TrimSpace(w.TaxRate)
	if raw == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tax rate %q: %w", w.TaxRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("tax rate %q out of range [0,1]", w.TaxRate)
	}
	return rate, nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WORKSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WORKSHOP_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"WORKSHOP_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"WORKSHOP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"WORKSHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"WORKSHOP_PUBSUB_DOMAIN_TOPIC" required:"true"`
	DomainSubscription string `envconfig:"WORKSHOP_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize    int           `envconfig:"WORKSHOP_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollInterval time.Duration `envconfig:"WORKSHOP_OUTBOX_PUBLISH_POLL_INTERVAL" default:"500ms"`
	MaxAttempts  int           `envconfig:"WORKSHOP_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionAge time.Duration `envconfig:"WORKSHOP_OUTBOX_RETENTION_AGE" default:"720h"`
}

// AuthRateLimitConfig throttles the unauthenticated auth surface.
// Zero limits disable the corresponding counter.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"WORKSHOP_AUTH_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"WORKSHOP_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"WORKSHOP_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow     time.Duration `envconfig:"WORKSHOP_AUTH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"WORKSHOP_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"WORKSHOP_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"5"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"WORKSHOP_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"WORKSHOP_CRON_LOCK_TTL" default:"50m"`
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
