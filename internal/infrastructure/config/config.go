package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// RuntimeMode selects live vs fallback wiring at the composition root. The
// core never branches on it; in fallback mode the webhook notifier is
// swapped for a log-only one.
const (
	ModeLive     = "live"
	ModeFallback = "fallback"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	JWTSecret   string `env:"JWT_SECRET"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	RuntimeMode string `env:"RUNTIME_MODE, default=live"`

	// SurgeMultiplier is applied to base pay when a ghosted shift reopens.
	SurgeMultiplier float64 `env:"SURGE_MULTIPLIER, default=1.5"`

	// NotifyWebhookURL is the push-gateway endpoint. Empty forces fallback
	// (log-only) delivery.
	NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL"`

	Sweeper SweeperConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SweeperConfig struct {
	// Enabled turns on the background no-show sweep. Manager-triggered
	// ghosting works either way.
	Enabled  bool          `env:"GHOST_SWEEP_ENABLED,  default=false"`
	Grace    time.Duration `env:"GHOST_GRACE_PERIOD,   default=15m"`
	Interval time.Duration `env:"GHOST_SWEEP_INTERVAL, default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=shift_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
