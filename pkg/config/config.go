package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Sanity        SanityConfig
	Email         EmailConfig
	Cart          CartConfig
	DB            DBConfig
	Redis         RedisConfig
	FormRateLimit FormRateLimitConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRISTENEO_APP_ENV" default:"dev"`
	Port         string `envconfig:"PRISTENEO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PRISTENEO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRISTENEO_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"PRISTENEO_LOG_FORMAT"`
	SiteURL      string `envconfig:"PRISTENEO_SITE_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type SanityConfig struct {
	ProjectID  string        `envconfig:"PRISTENEO_SANITY_PROJECT_ID" required:"true"`
	Dataset    string        `envconfig:"PRISTENEO_SANITY_DATASET" default:"production"`
	APIVersion string        `envconfig:"PRISTENEO_SANITY_API_VERSION" default:"2024-01-01"`
	Token      string        `envconfig:"PRISTENEO_SANITY_TOKEN"`
	UseCDN     bool          `envconfig:"PRISTENEO_SANITY_USE_CDN" default:"true"`
	Revalidate time.Duration `envconfig:"PRISTENEO_SANITY_REVALIDATE" default:"60s"`
	Timeout    time.Duration `envconfig:"PRISTENEO_SANITY_TIMEOUT" default:"10s"`
}

// EmailConfig holds the transactional email settings. An empty ResendAPIKey
// puts both form pipelines in degraded mode: payloads are logged, nothing is sent.
type EmailConfig struct {
	ResendAPIKey string `envconfig:"PRISTENEO_RESEND_API_KEY"`
	OwnerAddress string `envconfig:"PRISTENEO_EMAIL_OWNER_ADDRESS" default:"pristeneo@gmail.com"`
	FromProd     string `envconfig:"PRISTENEO_EMAIL_FROM" default:"Pristeneo <no-reply@pristeneo.com>"`
	FromDev      string `envconfig:"PRISTENEO_EMAIL_FROM_DEV" default:"onboarding@resend.dev"`
}

// Configured reports whether an email provider credential is present.
func (e EmailConfig) Configured() bool {
	return strings.TrimSpace(e.ResendAPIKey) != ""
}

// From picks the sender address for the running environment.
func (e EmailConfig) From(app AppConfig) string {
	if app.IsProd() {
		return e.FromProd
	}
	return e.FromDev
}

type CartConfig struct {
	Backend      string        `envconfig:"PRISTENEO_CART_BACKEND" default:"memory"`
	TTL          time.Duration `envconfig:"PRISTENEO_CART_TTL" default:"720h"`
	CookieName   string        `envconfig:"PRISTENEO_CART_COOKIE_NAME" default:"pristeneo_cart"`
	CookieSecure bool          `envconfig:"PRISTENEO_CART_COOKIE_SECURE" default:"false"`
}

// NormalizedBackend returns the lowercase backend name, defaulting to memory.
func (c CartConfig) NormalizedBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Backend))
	if backend == "" {
		return CartBackendMemory
	}
	return backend
}

type DBConfig struct {
	DSN    string `envconfig:"PRISTENEO_DB_DSN"`
	Driver string `envconfig:"PRISTENEO_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"PRISTENEO_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"PRISTENEO_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"PRISTENEO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRISTENEO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"PRISTENEO_DB_SLOW_QUERY" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRISTENEO_REDIS_URL"`
	Address      string        `envconfig:"PRISTENEO_REDIS_ADDR"`
	Password     string        `envconfig:"PRISTENEO_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRISTENEO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRISTENEO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRISTENEO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRISTENEO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRISTENEO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRISTENEO_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"PRISTENEO_REDIS_KEY_PREFIX" default:"pristeneo"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FormRateLimitConfig struct {
	Window     time.Duration `envconfig:"PRISTENEO_FORM_RATE_LIMIT_WINDOW" default:"10m"`
	IPLimit    int           `envconfig:"PRISTENEO_FORM_RATE_LIMIT_IP_LIMIT" default:"20"`
	EmailLimit int           `envconfig:"PRISTENEO_FORM_RATE_LIMIT_EMAIL_LIMIT" default:"5"`
}

type CORSConfig struct {
	Origins []string `envconfig:"PRISTENEO_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (c *Config) validate() error {
	switch c.Cart.NormalizedBackend() {
	case CartBackendMemory:
	case CartBackendRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("%s is required when %s=%s", EnvRedisURL, EnvCartBackend, CartBackendRedis)
		}
	case CartBackendSQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvCartBackend, CartBackendSQL)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvCartBackend, c.Cart.Backend)
	}
	return nil
}
