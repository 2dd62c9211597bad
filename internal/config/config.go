// Package config loads service settings from the environment and holds the
// moderation constants shared by the complaint flow.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the runtime configuration of the roulette service.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"production"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"host=localhost user=user password=password dbname=roulettedb port=5432 sslmode=disable"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6380"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// NATSURL enables the NATS session sink when set.
	NATSURL string `envconfig:"NATS_URL"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"72h"`

	AttributeCacheTTL time.Duration `envconfig:"ATTRIBUTE_CACHE_TTL" default:"5m"`
	AuditBuffer       int           `envconfig:"AUDIT_BUFFER" default:"256"`
	WSSendBuffer      int           `envconfig:"WS_SEND_BUFFER" default:"256"`
	WSMaxMessageSize  int64         `envconfig:"WS_MAX_MESSAGE_SIZE" default:"4096"`
}

// Load reads .env (if present) into the environment and decodes Config from it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET must not be empty")
	}
	if cfg.AuditBuffer <= 0 || cfg.WSSendBuffer <= 0 {
		return nil, fmt.Errorf("config: AUDIT_BUFFER and WS_SEND_BUFFER must be positive")
	}
	return &cfg, nil
}

// Development reports whether the service runs in development mode.
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}
