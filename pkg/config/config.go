package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Checkout      CheckoutConfig
	Cart          CartConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Mail          MailConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"FOODIEHAVEN_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODIEHAVEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOODIEHAVEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODIEHAVEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODIEHAVEN_DB_DSN"`
	Driver string `envconfig:"FOODIEHAVEN_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FOODIEHAVEN_DB_HOST"`
	Port     int    `envconfig:"FOODIEHAVEN_DB_PORT" default:"5432"`
	User     string `envconfig:"FOODIEHAVEN_DB_USER"`
	Password string `envconfig:"FOODIEHAVEN_DB_PASSWORD"`
	Name     string `envconfig:"FOODIEHAVEN_DB_NAME"`
	SSLMode  string `envconfig:"FOODIEHAVEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODIEHAVEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODIEHAVEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODIEHAVEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODIEHAVEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either FOODIEHAVEN_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODIEHAVEN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FOODIEHAVEN_REDIS_ADDR"`
	Password     string        `envconfig:"FOODIEHAVEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODIEHAVEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODIEHAVEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODIEHAVEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODIEHAVEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODIEHAVEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODIEHAVEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FOODIEHAVEN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FOODIEHAVEN_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FOODIEHAVEN_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOODIEHAVEN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOODIEHAVEN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOODIEHAVEN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOODIEHAVEN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOODIEHAVEN_ARGON_KEY_LEN" default:"32"`
}

// CheckoutConfig carries the fee schedule policy constants.
type CheckoutConfig struct {
	DeliveryFee int `envconfig:"FOODIEHAVEN_CHECKOUT_DELIVERY_FEE" default:"150"`
	ServiceFee  int `envconfig:"FOODIEHAVEN_CHECKOUT_SERVICE_FEE" default:"50"`

	IdempotencyTTL time.Duration `envconfig:"FOODIEHAVEN_CHECKOUT_IDEMPOTENCY_TTL" default:"10m"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"FOODIEHAVEN_CART_TTL" default:"168h"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"FOODIEHAVEN_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"FOODIEHAVEN_PUBSUB_ORDERS_TOPIC" default:"order-events"`
	OrdersSubscription string `envconfig:"FOODIEHAVEN_PUBSUB_ORDERS_SUBSCRIPTION" default:"order-events-worker"`
	Enabled            bool   `envconfig:"FOODIEHAVEN_PUBSUB_ENABLED" default:"false"`
}

// MailConfig points at the transactional mail webhook used for vendor and
// moderation emails.
type MailConfig struct {
	WebhookURL string        `envconfig:"FOODIEHAVEN_MAIL_WEBHOOK_URL"`
	APIKey     string        `envconfig:"FOODIEHAVEN_MAIL_API_KEY"`
	FromName   string        `envconfig:"FOODIEHAVEN_MAIL_FROM_NAME" default:"Foodie Haven"`
	Timeout    time.Duration `envconfig:"FOODIEHAVEN_MAIL_TIMEOUT" default:"10s"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FOODIEHAVEN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FOODIEHAVEN_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FOODIEHAVEN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FOODIEHAVEN_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FOODIEHAVEN_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FOODIEHAVEN_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FOODIEHAVEN_AUTO_MIGRATE" default:"false"`
}
