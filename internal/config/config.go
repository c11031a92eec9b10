package config

import (
	"errors"
	"fmt"

	"bomb_royale/internal/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	AppPort     string `env:"APP_PORT" envDefault:"8080"`
	Storage     string `env:"STORAGE" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`
	BotToken    string `env:"BOT_TOKEN"`

	// Operator bot, disabled without a token
	AdminBotToken string  `env:"ADMIN_BOT_TOKEN"`
	AdminIDs      []int64 `env:"ADMIN_IDS"`

	// Owner of the admin operations and of the collected fees.
	OperatorAddress string  `env:"OPERATOR_ADDRESS"`
	AllowedWagers   []int64 `env:"ALLOWED_WAGERS" envDefault:"100,200,500,1000,2500,5000,10000"`
	MaxGames        int     `env:"MAX_GAMES" envDefault:"10000"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Rate limits, windows in seconds
	APIRateLimit     int `env:"API_RATE_LIMIT" envDefault:"120"`
	APIRateWindow    int `env:"API_RATE_WINDOW" envDefault:"60"`
	ActionRateLimit  int `env:"ACTION_RATE_LIMIT" envDefault:"60"`
	ActionRateWindow int `env:"ACTION_RATE_WINDOW" envDefault:"60"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	DevMode       bool   `env:"DEV_MODE" envDefault:"false"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
}

// Parse reads the configuration from the environment and validates it.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.OperatorAddress == "" {
		return errors.New("OPERATOR_ADDRESS is not set")
	}
	if len(c.AllowedWagers) == 0 {
		return errors.New("ALLOWED_WAGERS is empty")
	}
	for _, w := range c.AllowedWagers {
		if w <= 0 {
			return fmt.Errorf("invalid wager %d", w)
		}
	}
	if c.APIRateLimit <= 0 || c.APIRateWindow <= 0 || c.ActionRateLimit <= 0 || c.ActionRateWindow <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.AdminBotToken != "" && len(c.AdminIDs) == 0 {
		return errors.New("ADMIN_IDS is required with ADMIN_BOT_TOKEN")
	}
	return nil
}

// Загрузка конфига из .env и окружения
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	if cfg.BotToken == "" && !cfg.DevMode {
		logger.Warn("BOT_TOKEN is not set, telegram auth disabled")
	}
	return cfg
}
