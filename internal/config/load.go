package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the loader reads,
// e.g. AUTOSCHEDULER_SERVER_PORT.
const EnvPrefix = "AUTOSCHEDULER"

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// keys lists every setting so that environment variables are honoured
// even for keys without a default.
var keys = []string{
	"server.port", "server.log_level", "server.shutdown_timeout",
	"database.url",
	"backend.source", "backend.base_url", "backend.timeout",
	"backend.requests_per_second", "backend.burst",
	"backend.breaker_failures", "backend.breaker_delay",
	"session.secret", "session.max_age", "session.secure",
	"store.max_sessions", "store.session_ttl", "store.replace_concurrency",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("backend.source", SourceHTTP)
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("backend.requests_per_second", 20)
	v.SetDefault("backend.burst", 10)
	v.SetDefault("backend.breaker_failures", 5)
	v.SetDefault("backend.breaker_delay", "30s")
	v.SetDefault("session.max_age", 60*60*24*30)
	v.SetDefault("store.max_sessions", 10000)
	v.SetDefault("store.session_ttl", "24h")
	v.SetDefault("store.replace_concurrency", 4)
}

// Load reads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence. The file is
// AUTOSCHEDULER_CONFIG_FILE if set, otherwise ./config.yaml when present.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvPrefix + "_CONFIG_FILE"))
}

// LoadFile is Load with an explicit config file path. An empty path looks
// for an optional config.yaml in the working directory.
func LoadFile(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase reads the same sources as LoadFile but only requires and
// validates the database group. Offline tools use it.
func LoadDatabase(path string) (*DatabaseConfig, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("%w: database.url is required", ErrInvalidConfig)
	}
	if err := validator.New().Struct(&cfg.Database); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg.Database, nil
}

func read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints and the rules that span groups.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.Backend.Source == SourcePostgres && cfg.Database.URL == "" {
		return fmt.Errorf("%w: backend.source=postgres requires database.url", ErrInvalidConfig)
	}
	return nil
}
