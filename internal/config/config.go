// Package config holds application configuration.
package config

import "time"

// Config is the root configuration.
type Config struct {
	App      App      `yaml:"app"`
	Log      Log      `yaml:"log"`
	HTTP     HTTP     `yaml:"http"`
	Database Database `yaml:"database"`
	Session  Session  `yaml:"session"`
	Storage  Storage  `yaml:"storage"`
	WhatsApp WhatsApp `yaml:"whatsapp"`
}

type App struct {
	Env              string `yaml:"env"`
	MetricsNamespace string `yaml:"metrics_namespace"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HTTP struct {
	ListenAddr string `yaml:"listen_addr"`
	BasePath   string `yaml:"base_path"`
}

// Database selects the remote store. Driver is "postgres" or "sqlite".
type Database struct {
	Driver     string `yaml:"driver"`
	URL        string `yaml:"url"`
	Schema     string `yaml:"schema"`
	SQLitePath string `yaml:"sqlite_path"`
	// Migrate applies pending migrations when serving.
	Migrate bool `yaml:"migrate"`
}

// Session selects where the session slot lives. Backend is "sqlite", "redis" or "memory".
type Session struct {
	Backend       string        `yaml:"backend"`
	Key           string        `yaml:"key"`
	TTL           time.Duration `yaml:"ttl"`
	Path          string        `yaml:"path"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisTLS      bool          `yaml:"redis_tls"`
	RedisPrefix   string        `yaml:"redis_prefix"`
}

// Storage selects the logo bucket. Provider is "s3", "local" or "none".
type Storage struct {
	Provider      string `yaml:"provider"`
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
	LocalDir      string `yaml:"local_dir"`
}

type WhatsApp struct {
	Enabled     bool   `yaml:"enabled"`
	StorePath   string `yaml:"store_path"`
	LogLevel    string `yaml:"log_level"`
	CountryCode string `yaml:"country_code"`
}

// Defaults returns a Config that runs locally on SQLite without external services.
func Defaults() Config {
	return Config{
		App: App{
			Env:              "development",
			MetricsNamespace: "tradepro",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		HTTP: HTTP{
			ListenAddr: ":8080",
		},
		Database: Database{
			Driver:     "sqlite",
			Schema:     "public",
			SQLitePath: "data/tradepro.db",
			Migrate:    true,
		},
		Session: Session{
			Backend:     "sqlite",
			Key:         "tradepro_session",
			TTL:         24 * time.Hour,
			Path:        "data/session.db",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "tradepro:",
		},
		Storage: Storage{
			Provider: "local",
			Bucket:   "merchant-assets",
			Region:   "us-east-1",
			LocalDir: "data/assets",
		},
		WhatsApp: WhatsApp{
			StorePath:   "data/whatsapp.db",
			LogLevel:    "WARN",
			CountryCode: "213",
		},
	}
}
