package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	Hub          HubConfig
	Paymob       PaymobConfig
	RateLimit    RateLimitConfig
	Cache        CacheConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := url.Parse(cfg.App.BaseURL); err != nil {
		return nil, fmt.Errorf("%s is not a valid url: %w", EnvBaseURL, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"MINTALIST_APP_ENV" required:"true"`
	Port         string   `envconfig:"MINTALIST_APP_PORT" default:"8080"`
	BaseURL      string   `envconfig:"MINTALIST_BASE_URL" required:"true"`
	CORSOrigins  []string `envconfig:"MINTALIST_CORS_ORIGINS" default:"http://localhost:3000"`
	ApplyURL     string   `envconfig:"MINTALIST_APPLY_URL" default:"https://exale.net/apply"`
	LogLevel     string   `envconfig:"MINTALIST_LOG_LEVEL" default:"info"`
	LogFormat    string   `envconfig:"MINTALIST_LOG_FORMAT" default:"json"`
	LogWarnStack bool     `envconfig:"MINTALIST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MINTALIST_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MINTALIST_DB_DSN"`
	Driver string `envconfig:"MINTALIST_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MINTALIST_DB_HOST"`
	LegacyPort     int    `envconfig:"MINTALIST_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MINTALIST_DB_USER"`
	LegacyPassword string `envconfig:"MINTALIST_DB_PASSWORD"`
	LegacyName     string `envconfig:"MINTALIST_DB_NAME"`
	LegacySSLMode  string `envconfig:"MINTALIST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MINTALIST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MINTALIST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MINTALIST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MINTALIST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected (local/dev only).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"MINTALIST_REDIS_URL"`
	Address      string        `envconfig:"MINTALIST_REDIS_ADDR"`
	Password     string        `envconfig:"MINTALIST_REDIS_PASSWORD"`
	DB           int           `envconfig:"MINTALIST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MINTALIST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MINTALIST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MINTALIST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MINTALIST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MINTALIST_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"MINTALIST_REDIS_KEY_PREFIX" default:"mintalist"`
}

// IdentityConfig covers session tokens and webhooks issued by the identity provider.
type IdentityConfig struct {
	JWTSecret         string        `envconfig:"MINTALIST_IDENTITY_JWT_SECRET" required:"true"`
	JWTIssuer         string        `envconfig:"MINTALIST_IDENTITY_JWT_ISSUER" required:"true"`
	WebhookSecret     string        `envconfig:"MINTALIST_IDENTITY_WEBHOOK_SECRET"`
	WebhookTolerance  time.Duration `envconfig:"MINTALIST_IDENTITY_WEBHOOK_TOLERANCE" default:"5m"`
	WebhookDedupeTTL  time.Duration `envconfig:"MINTALIST_IDENTITY_WEBHOOK_DEDUPE_TTL" default:"72h"`
	SessionTTLMinutes int           `envconfig:"MINTALIST_IDENTITY_SESSION_TTL_MINUTES" default:"60"`
}

// HubConfig lists the identities allowed into the admin hub.
type HubConfig struct {
	AdminUserIDs []string `envconfig:"MINTALIST_HUB_ADMIN_USER_IDS"`
	AdminEmails  []string `envconfig:"MINTALIST_HUB_ADMIN_EMAILS"`
}

type PaymobConfig struct {
	BaseURL       string        `envconfig:"MINTALIST_PAYMOB_BASE_URL" default:"https://accept.paymobsolutions.com/api"`
	APIKey        string        `envconfig:"MINTALIST_PAYMOB_API_KEY"`
	Username      string        `envconfig:"MINTALIST_PAYMOB_USERNAME"`
	Password      string        `envconfig:"MINTALIST_PAYMOB_PASSWORD"`
	IntegrationID int           `envconfig:"MINTALIST_PAYMOB_INTEGRATION_ID"`
	IframeID      string        `envconfig:"MINTALIST_PAYMOB_IFRAME_ID"`
	HMACSecret    string        `envconfig:"MINTALIST_PAYMOB_HMAC_SECRET"`
	Currency      string        `envconfig:"MINTALIST_PAYMOB_CURRENCY" default:"EGP"`
	MonthlyCents  int64         `envconfig:"MINTALIST_PAYMOB_MONTHLY_CENTS"`
	AnnualCents   int64         `envconfig:"MINTALIST_PAYMOB_ANNUAL_CENTS"`
	Timeout       time.Duration `envconfig:"MINTALIST_PAYMOB_TIMEOUT" default:"15s"`
}

// Enabled reports whether enough credentials exist to talk to Paymob.
func (p PaymobConfig) Enabled() bool {
	hasCreds := strings.TrimSpace(p.APIKey) != "" || strings.TrimSpace(p.Username) != ""
	return hasCreds && p.IntegrationID > 0 && strings.TrimSpace(p.IframeID) != ""
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"MINTALIST_RATE_LIMIT_WINDOW" default:"15m"`
	Limit  int           `envconfig:"MINTALIST_RATE_LIMIT_LIMIT" default:"10"`
}

type CacheConfig struct {
	PublicPageSize int           `envconfig:"MINTALIST_CACHE_PUBLIC_PAGE_SIZE" default:"1024"`
	PublicPageTTL  time.Duration `envconfig:"MINTALIST_CACHE_PUBLIC_PAGE_TTL" default:"60s"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"MINTALIST_CRON_INTERVAL" default:"1h"`
	StalePaymentAge time.Duration `envconfig:"MINTALIST_CRON_STALE_PAYMENT_AGE" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MINTALIST_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:mintalist.db?cache=shared"
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
