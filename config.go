package polyblog

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the top level runtime configuration, populated from environment
// variables with sensible local-development defaults.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	Logging LoggingConfig
	Cache   CacheConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `env:"SERVER_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig selects and configures the storage backend. Driver is one of
// "memory", "sqlite", or "postgres".
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"memory"`
	DSN    string `env:"STORAGE_DSN" env-default:"file:polyblog.db?cache=shared"`
}

// AuthConfig wires the single-admin identity and token signing.
type AuthConfig struct {
	Secret        string        `env:"AUTH_SECRET" env-default:"your-super-secret-key-that-is-long-enough"`
	AdminEmail    string        `env:"AUTH_ADMIN_EMAIL" env-default:"admin@example.com"`
	AdminPassword string        `env:"AUTH_ADMIN_PASSWORD" env-default:"password"`
	TokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" env-default:"1h"`
}

// LoggingConfig controls the go-logger provider.
type LoggingConfig struct {
	Level     string `env:"LOG_LEVEL" env-default:"info"`
	Format    string `env:"LOG_FORMAT" env-default:"json"`
	AddSource bool   `env:"LOG_ADD_SOURCE" env-default:"false"`
}

// CacheConfig toggles the read-through repository cache on relational
// storage. The memory driver ignores it.
type CacheConfig struct {
	Enabled bool          `env:"CACHE_ENABLED" env-default:"false"`
	TTL     time.Duration `env:"CACHE_TTL" env-default:"1m"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no environment overrides
// are present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "memory",
			DSN:    "file:polyblog.db?cache=shared",
		},
		Auth: AuthConfig{
			Secret:        "your-super-secret-key-that-is-long-enough",
			AdminEmail:    "admin@example.com",
			AdminPassword: "password",
			TokenTTL:      time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			TTL: time.Minute,
		},
	}
}
