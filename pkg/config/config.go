package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "gomart"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cors         CorsConfig
	Payment      PaymentConfig
	Geocode      GeocodeConfig
	Fulfillment  FulfillmentConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GOMART_APP_ENV" required:"true"`
	Port         string `envconfig:"GOMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GOMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GOMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GOMART_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"GOMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GOMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GOMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GOMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GOMART_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"GOMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GOMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GOMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GOMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GOMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GOMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GOMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GOMART_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CorsConfig struct {
	AllowedOrigins []string `envconfig:"GOMART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// PaymentConfig points at the redirect-URL gateway. Both providers share
// one request shape and differ only by endpoint.
type PaymentConfig struct {
	VNPayEndpoint string        `envconfig:"GOMART_PAYMENT_VNPAY_ENDPOINT"`
	MoMoEndpoint  string        `envconfig:"GOMART_PAYMENT_MOMO_ENDPOINT"`
	ReturnURL     string        `envconfig:"GOMART_PAYMENT_RETURN_URL"`
	APIKey        string        `envconfig:"GOMART_PAYMENT_API_KEY"`
	Timeout       time.Duration `envconfig:"GOMART_PAYMENT_TIMEOUT" default:"10s"`
}

type GeocodeConfig struct {
	BaseURL string        `envconfig:"GOMART_GEOCODE_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	Timeout time.Duration `envconfig:"GOMART_GEOCODE_TIMEOUT" default:"10s"`
}

// FulfillmentConfig carries the store's origin coordinate. Defaults point
// at the flagship store in central Hanoi; override per deployment.
type FulfillmentConfig struct {
	OriginLng float64 `envconfig:"GOMART_FULFILLMENT_ORIGIN_LNG" default:"105.854444"`
	OriginLat float64 `envconfig:"GOMART_FULFILLMENT_ORIGIN_LAT" default:"21.028511"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GOMART_AUTO_MIGRATE" default:"false"`
}
