package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "tradepro.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The file named by TRADEPRO_CONFIG is used when set.
func Load() (*Config, error) {
	path := DefaultConfigFile
	if v := os.Getenv("TRADEPRO_CONFIG"); v != "" {
		path = v
	}
	return LoadFrom(path)
}

// LoadFrom returns a Config loaded from yamlPath. A missing file is not an error.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays non-empty environment variables onto cfg.
func loadEnv(cfg *Config) {
	setString(&cfg.App.Env, "APP_ENV")
	setString(&cfg.App.MetricsNamespace, "METRICS_NAMESPACE")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	setString(&cfg.HTTP.ListenAddr, "HTTP_LISTEN_ADDR")
	setString(&cfg.HTTP.BasePath, "PUBLIC_BASE_PATH")

	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Database.Schema, "DATABASE_SCHEMA")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	setBool(&cfg.Database.Migrate, "DATABASE_MIGRATE")

	setString(&cfg.Session.Backend, "SESSION_BACKEND")
	setString(&cfg.Session.Key, "SESSION_KEY")
	setDuration(&cfg.Session.TTL, "SESSION_TTL")
	setString(&cfg.Session.Path, "SESSION_PATH")
	setString(&cfg.Session.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Session.RedisPassword, "REDIS_PASSWORD")
	setInt(&cfg.Session.RedisDB, "REDIS_DB")
	setBool(&cfg.Session.RedisTLS, "REDIS_TLS")
	setString(&cfg.Session.RedisPrefix, "REDIS_KEY_PREFIX")

	setString(&cfg.Storage.Provider, "STORAGE_PROVIDER")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.Region, "STORAGE_REGION")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.PublicBaseURL, "STORAGE_PUBLIC_BASE_URL")
	setString(&cfg.Storage.LocalDir, "STORAGE_LOCAL_DIR")

	setBool(&cfg.WhatsApp.Enabled, "WHATSAPP_ENABLED")
	setString(&cfg.WhatsApp.StorePath, "WHATSAPP_STORE_PATH")
	setString(&cfg.WhatsApp.LogLevel, "WHATSAPP_LOG_LEVEL")
	setString(&cfg.WhatsApp.CountryCode, "WHATSAPP_COUNTRY_CODE")
}

func validate(cfg *Config) error {
	if cfg.HTTP.ListenAddr == "" {
		return errors.New("http.listen_addr is required")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.URL == "" {
			return errors.New("database.url is required for the postgres driver")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			return errors.New("database.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", cfg.Database.Driver)
	}

	switch cfg.Session.Backend {
	case "sqlite":
		if cfg.Session.Path == "" {
			return errors.New("session.path is required for the sqlite backend")
		}
	case "redis":
		if cfg.Session.RedisAddr == "" {
			return errors.New("session.redis_addr is required for the redis backend")
		}
	case "memory":
	default:
		return fmt.Errorf("session.backend %q is not supported", cfg.Session.Backend)
	}
	if cfg.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if cfg.Session.Key == "" {
		return errors.New("session.key is required")
	}

	switch cfg.Storage.Provider {
	case "s3":
		if cfg.Storage.Bucket == "" {
			return errors.New("storage.bucket is required for the s3 provider")
		}
	case "local":
		if cfg.Storage.LocalDir == "" {
			return errors.New("storage.local_dir is required for the local provider")
		}
	case "none", "":
	default:
		return fmt.Errorf("storage.provider %q is not supported", cfg.Storage.Provider)
	}

	if cfg.WhatsApp.Enabled && cfg.WhatsApp.StorePath == "" {
		return errors.New("whatsapp.store_path is required when whatsapp is enabled")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
