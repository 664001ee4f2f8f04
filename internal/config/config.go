package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AI        AIConfig        `mapstructure:"ai"`
	Mailgun   MailgunConfig   `mapstructure:"mailgun"`
	Recaptcha RecaptchaConfig `mapstructure:"recaptcha"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	App       AppConfig       `mapstructure:"app"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type MailgunConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	APIKey            string `mapstructure:"api_key"`
	Domain            string `mapstructure:"domain"`
	From              string `mapstructure:"from"`
	ReplyTo           string `mapstructure:"reply_to"`
	WebhookSigningKey string `mapstructure:"webhook_signing_key"`
}

type RecaptchaConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	VerifyURL string `mapstructure:"verify_url"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type AppConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	BookingURL string `mapstructure:"booking_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	SubmitWindow      time.Duration `mapstructure:"submit_window"`
	SubmitMaxRequests int           `mapstructure:"submit_max_requests"`
	ReadWindow        time.Duration `mapstructure:"read_window"`
	ReadMaxRequests   int           `mapstructure:"read_max_requests"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("READINESS")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Mailgun
	viper.BindEnv("mailgun.base_url", "MAILGUN_BASE_URL")
	viper.BindEnv("mailgun.api_key", "MAILGUN_API_KEY")
	viper.BindEnv("mailgun.domain", "MAILGUN_DOMAIN")
	viper.BindEnv("mailgun.webhook_signing_key", "MAILGUN_WEBHOOK_SIGNING_KEY")

	// reCAPTCHA
	viper.BindEnv("recaptcha.secret_key", "RECAPTCHA_SECRET_KEY")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// App
	viper.BindEnv("app.base_url", "APP_BASE_URL")
	viper.BindEnv("app.booking_url", "APP_BOOKING_URL")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	applyRateLimitDefaults(&cfg.RateLimit)

	return &cfg, nil
}

func applyRateLimitDefaults(rl *RateLimitConfig) {
	if rl.SubmitWindow <= 0 {
		rl.SubmitWindow = time.Hour
	}
	if rl.SubmitMaxRequests <= 0 {
		rl.SubmitMaxRequests = 3
	}
	if rl.ReadWindow <= 0 {
		rl.ReadWindow = time.Minute
	}
	if rl.ReadMaxRequests <= 0 {
		rl.ReadMaxRequests = 30
	}
}
