package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development" validate:"oneof=development test staging production"`

	ConsoleAddr string `envconfig:"CONSOLE_ADDR" default:"127.0.0.1:3000" validate:"required"`
	APIBaseURL  string `envconfig:"API_BASE_URL" default:"http://localhost:9090/api" validate:"required,url"`

	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s" validate:"gt=0"`
	MaxBodyBytes int64         `envconfig:"MAX_BODY_BYTES" default:"1048576" validate:"gte=1024"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	LogOTel   bool   `envconfig:"LOG_OTEL" default:"false"`

	TracingEnabled     bool    `envconfig:"TRACING_ENABLED" default:"false"`
	TracingSampleRatio float64 `envconfig:"TRACING_SAMPLE_RATIO" default:"1" validate:"gte=0,lte=1"`
	OTLPEndpoint       string  `envconfig:"OTLP_ENDPOINT" validate:"omitempty,url"`

	SessionBackend       string `envconfig:"SESSION_BACKEND" default:"file" validate:"oneof=memory file redis postgres"`
	SessionFile          string `envconfig:"SESSION_FILE" default:".hrms/session.json"`
	SessionKeyPrefix     string `envconfig:"SESSION_KEY_PREFIX" default:"hrms_"`
	SessionEncryptionKey string `envconfig:"SESSION_ENCRYPTION_KEY"`
	RedisAddr            string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	DatabaseURL          string `envconfig:"DATABASE_URL"`

	CapabilityMapFile string `envconfig:"CAPABILITY_MAP_FILE"`
	RoleSwitchEnabled bool   `envconfig:"ROLE_SWITCH_ENABLED" default:"true"`
	RevokeOnLogout    bool   `envconfig:"REVOKE_ON_LOGOUT" default:"true"`

	SessionExpiryCheck time.Duration `envconfig:"SESSION_EXPIRY_CHECK" default:"1m" validate:"gte=0"`

	LoginRatePerMinute int  `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10" validate:"gt=0"`
	MetricsEnabled     bool `envconfig:"METRICS_ENABLED" default:"true"`

	DevServerAddr       string        `envconfig:"DEVSERVER_ADDR" default:"127.0.0.1:9090"`
	DevServerJWTSecret  string        `envconfig:"DEVSERVER_JWT_SECRET" default:"dev-only-secret"`
	DevServerTokenTTL   time.Duration `envconfig:"DEVSERVER_TOKEN_TTL" default:"8h"`
	DevServerPruneEvery time.Duration `envconfig:"DEVSERVER_PRUNE_EVERY" default:"10m" validate:"gte=0"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL")
	}
	switch c.SessionBackend {
	case "file":
		if strings.TrimSpace(c.SessionFile) == "" {
			return fmt.Errorf("SESSION_FILE is required for the file session backend")
		}
	case "redis":
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis session backend")
		}
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres session backend")
		}
	}
	if c.IsProduction() {
		if c.RoleSwitchEnabled {
			return fmt.Errorf("ROLE_SWITCH_ENABLED must be false in production")
		}
		if strings.HasPrefix(c.APIBaseURL, "http://") {
			return fmt.Errorf("API_BASE_URL must use https in production")
		}
	}
	return nil
}
