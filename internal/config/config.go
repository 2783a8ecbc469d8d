// Package config loads process settings for portald from PORTAL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	portalAuth "github.com/leanda/portalAuth"
)

// Store backends selectable with PORTAL_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config is the process configuration.
type Config struct {
	Addr              string        `env:"PORTAL_ADDR"                envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"PORTAL_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"PORTAL_SHUTDOWN_TIMEOUT"    envDefault:"10s"`

	JWTSecret string        `env:"PORTAL_JWT_SECRET"`
	JWTTTL    time.Duration `env:"PORTAL_JWT_TTL"    envDefault:"24h"`
	JWTIssuer string        `env:"PORTAL_JWT_ISSUER" envDefault:"student-portal"`
	JWTLeeway time.Duration `env:"PORTAL_JWT_LEEWAY" envDefault:"0s"`

	PasswordAlgorithm string `env:"PORTAL_PASSWORD_ALGORITHM" envDefault:"bcrypt"`
	BcryptCost        int    `env:"PORTAL_BCRYPT_COST"        envDefault:"10"`

	Store         string `env:"PORTAL_STORE"          envDefault:"memory"`
	DatabaseURL   string `env:"PORTAL_DATABASE_URL"`
	AutoMigrate   bool   `env:"PORTAL_AUTO_MIGRATE"   envDefault:"false"`
	RedisAddr     string `env:"PORTAL_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"PORTAL_REDIS_PASSWORD"`
	RedisDB       int    `env:"PORTAL_REDIS_DB"       envDefault:"0"`
	RedisPrefix   string `env:"PORTAL_REDIS_PREFIX"   envDefault:"portal"`

	LogFormat string `env:"PORTAL_LOG_FORMAT" envDefault:"json"`
	LogLevel  string `env:"PORTAL_LOG_LEVEL"  envDefault:"info"`

	AuditEnabled   bool `env:"PORTAL_AUDIT_ENABLED"     envDefault:"true"`
	AuditBuffer    int  `env:"PORTAL_AUDIT_BUFFER"      envDefault:"1024"`
	MetricsLatency bool `env:"PORTAL_METRICS_LATENCY"   envDefault:"true"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks settings the engine config does not cover.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("PORTAL_DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.JWTSecret == "" {
		return errors.New("PORTAL_JWT_SECRET is required")
	}
	return nil
}

// Engine maps the process settings onto the library configuration.
func (c Config) Engine() portalAuth.Config {
	cfg := portalAuth.DefaultConfig()
	cfg.JWT.Secret = []byte(c.JWTSecret)
	cfg.JWT.TTL = c.JWTTTL
	cfg.JWT.Issuer = c.JWTIssuer
	cfg.JWT.Leeway = c.JWTLeeway
	cfg.Password.Algorithm = c.PasswordAlgorithm
	cfg.Password.BcryptCost = c.BcryptCost
	cfg.Audit.Enabled = c.AuditEnabled
	cfg.Audit.BufferSize = c.AuditBuffer
	cfg.Metrics.EnableLatencyHistograms = c.MetricsLatency
	return cfg
}
