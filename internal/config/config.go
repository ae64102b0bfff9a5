package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Kafka Kafka `validate:"required"`

	Postgres Postgres `validate:"required"`

	Redis Redis `validate:"required"`

	Cache Cache

	Mail Mail

	Staff Staff `validate:"required"`

	QuickBooks QuickBooks
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type Kafka struct {
	GroupID string   `validate:"required"`
	Brokers []string `validate:"required,min=1,dive,hostname_port"`
	// Topic carries invoice payment notifications for reconciliation.
	Topic string `validate:"required"`

	ReaderMaxWait time.Duration `validate:"gte=0"`
	BatchTimeout  time.Duration `validate:"gte=0"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type Redis struct {
	Addr     string `validate:"required,hostname_port"`
	Password string
	DB       int `validate:"gte=0"`
}

type Cache struct {
	Capacity int           `validate:"gte=1"`
	TTL      time.Duration `validate:"gt=0"`
}

// Mail configures the SMTP relay and staff destinations. Empty destinations turn
// the matching notification into a no-op.
type Mail struct {
	Host     string `validate:"omitempty,hostname|ip"`
	Port     int    `validate:"omitempty,gt=0,lte=65535"`
	Username string
	Password string
	TLS      bool

	From       string `validate:"required,email"`
	AdminEmail string `validate:"omitempty,email"`
	SMSEmail   string `validate:"omitempty,email"`

	Timeout time.Duration `validate:"gt=0"`
}

type Staff struct {
	// BaseURL prefixes admin edit links in notifications.
	BaseURL  string `validate:"required,url"`
	Username string `validate:"required"`
	Password string `validate:"required,min=8"`
}

// QuickBooks is optional: without ClientID the invoicing integration is off and
// checkout falls back to manual processing.
type QuickBooks struct {
	ClientID     string
	ClientSecret string `validate:"required_with=ClientID"`
	RedirectURL  string `validate:"omitempty,url"`
	Environment  string `validate:"oneof=sandbox production"`
	CompanyID    string

	CallTimeout     time.Duration `validate:"gt=0"`
	RefreshInterval time.Duration `validate:"gt=0"`
	RefreshSkew     time.Duration `validate:"gte=0"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Kafka: Kafka{
			GroupID: env("KAFKA_GROUP_ID", "honey-biz"),
			Topic:   env("KAFKA_TOPIC", "invoice-payments"),
			Brokers: strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),

			ReaderMaxWait: envDuration("KAFKA_READER_MAX_WAIT", 10*time.Millisecond),
			BatchTimeout:  envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "shop"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: Redis{
			Addr:     env("REDIS_ADDR", "localhost:6379"),
			Password: env("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
		},

		Cache: Cache{
			Capacity: envInt("CACHE_CAPACITY", 100),
			TTL:      envDuration("CACHE_TTL", 10*time.Minute),
		},

		Mail: Mail{
			Host:     env("EMAIL_HOST", "localhost"),
			Port:     envInt("EMAIL_PORT", 587),
			Username: env("EMAIL_HOST_USER", ""),
			Password: env("EMAIL_HOST_PASSWORD", ""),
			TLS:      envBool("EMAIL_USE_TLS", true),

			From:       env("DEFAULT_FROM_EMAIL", "noreply@localhost.localdomain"),
			AdminEmail: env("ADMIN_NOTIFICATION_EMAIL", ""),
			SMSEmail:   env("SMS_NOTIFICATION_EMAIL", ""),

			Timeout: envDuration("EMAIL_TIMEOUT", 10*time.Second),
		},

		Staff: Staff{
			BaseURL:  env("STAFF_BASE_URL", "http://localhost:8080"),
			Username: env("STAFF_USERNAME", "admin"),
			Password: env("STAFF_PASSWORD", ""),
		},

		QuickBooks: QuickBooks{
			ClientID:     env("QUICKBOOKS_CLIENT_ID", ""),
			ClientSecret: env("QUICKBOOKS_CLIENT_SECRET", ""),
			RedirectURL:  env("QUICKBOOKS_REDIRECT_URI", ""),
			Environment:  env("QUICKBOOKS_ENVIRONMENT", "sandbox"),
			CompanyID:    env("QUICKBOOKS_COMPANY_ID", ""),

			CallTimeout:     envDuration("QUICKBOOKS_CALL_TIMEOUT", 15*time.Second),
			RefreshInterval: envDuration("QUICKBOOKS_REFRESH_INTERVAL", 5*time.Minute),
			RefreshSkew:     envDuration("QUICKBOOKS_REFRESH_SKEW", 10*time.Minute),
		},
	}
}

func (q QuickBooks) Configured() bool {
	return q.ClientID != "" && q.ClientSecret != ""
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
