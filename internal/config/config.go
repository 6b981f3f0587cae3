package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Mail      MailConfig
	Broker    BrokerConfig
	RateLimit RateLimitConfig
	Cart      CartConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" env-default:"pizza-order-service"`
	Env                   string `env:"APP_ENV" env-default:"development"`
	Host                  string `env:"APP_HOST" env-default:"0.0.0.0"`
	Port                  string `env:"PORT" env-default:"5000"`
	Version               string `env:"APP_VERSION" env-default:"dev"`
	BasePath              string `env:"API_BASE_PATH" env-default:"/api"`
	CORSAllowOrigins      string `env:"CORS_ALLOW_ORIGINS" env-default:"*"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" env-default:"30"`
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI                   string `env:"MONGODB_URI" env-default:"mongodb://127.0.0.1:27017"`
	Database              string `env:"MONGODB_DB" env-default:"pizza_corner"`
	ConnectTimeoutSeconds int    `env:"MONGODB_CONNECT_TIMEOUT_SECONDS" env-default:"10"`
	MaxPoolSize           uint64 `env:"MONGODB_MAX_POOL_SIZE" env-default:"50"`
	EnsureIndexes         bool   `env:"MONGODB_ENSURE_INDEXES" env-default:"true"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr           string `env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
	Password       string `env:"REDIS_PASSWORD"`
	DB             int    `env:"REDIS_DB" env-default:"0"`
	PoolSize       int    `env:"REDIS_POOL_SIZE" env-default:"10"`
	TimeoutSeconds int    `env:"REDIS_TIMEOUT_SECONDS" env-default:"3"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string `env:"JWT_SECRET" env-default:"dev_secret_change_me"`
	AccessTokenTTLHours     int    `env:"AUTH_ACCESS_TOKEN_TTL_HOURS" env-default:"168"`
	PasswordResetTTLMinutes int    `env:"AUTH_PASSWORD_RESET_TTL_MINUTES" env-default:"60"`
	BcryptCost              int    `env:"AUTH_BCRYPT_COST" env-default:"10"`
	AdminRegistrationCode   string `env:"ADMIN_REGISTRATION_CODE"`
}

// MailConfig holds SMTP credentials for outbound mail.
type MailConfig struct {
	SMTPHost    string `env:"SMTP_HOST"`
	SMTPPort    string `env:"SMTP_PORT" env-default:"587"`
	SMTPUser    string `env:"SMTP_USER"`
	SMTPPass    string `env:"SMTP_PASS"`
	From        string `env:"SMTP_FROM"`
	FrontendURL string `env:"FRONTEND_URL" env-default:"http://localhost:3000"`
}

// BrokerConfig configures the optional RabbitMQ event forwarder.
type BrokerConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE" env-default:"orders"`
	Retries  int    `env:"AMQP_DIAL_RETRIES" env-default:"5"`
}

// RateLimitConfig bounds requests against credential endpoints.
type RateLimitConfig struct {
	Requests      int `env:"RATE_LIMIT_REQUESTS" env-default:"10"`
	WindowSeconds int `env:"RATE_LIMIT_WINDOW_SECONDS" env-default:"60"`
}

// CartConfig controls how long an idle cart is kept.
type CartConfig struct {
	TTLHours int `env:"CART_TTL_HOURS" env-default:"168"`
}

// Load reads configuration from a .env file (if any) and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return nil, fmt.Errorf("invalid AUTH_BCRYPT_COST: %d", cfg.Auth.BcryptCost)
	}
	cfg.App.BasePath = "/" + strings.Trim(cfg.App.BasePath, "/")
	cfg.Mail.FrontendURL = strings.TrimRight(cfg.Mail.FrontendURL, "/")
	return &cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ConnectTimeout returns how long the initial Mongo connection may take.
func (m MongoConfig) ConnectTimeout() time.Duration {
	if m.ConnectTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.ConnectTimeoutSeconds) * time.Second
}

// Timeout bounds dialing and each Redis command.
func (r RedisConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLHours) * time.Hour
}

func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// Configured reports whether enough SMTP settings are present to send mail.
func (m MailConfig) Configured() bool {
	return m.SMTPHost != "" && m.SMTPUser != "" && m.SMTPPass != ""
}

// Sender returns the envelope sender, falling back to the SMTP user.
func (m MailConfig) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.SMTPUser
}

// Enabled reports whether events should be forwarded to a broker.
func (b BrokerConfig) Enabled() bool {
	return b.URL != ""
}

func (r RateLimitConfig) Window() time.Duration {
	if r.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.WindowSeconds) * time.Second
}

func (c CartConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.TTLHours) * time.Hour
}
