// Package config loads runtime configuration from a YAML file,
// environment variables (GAMEBOT_ prefix) and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Session backend names accepted in configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Token         string
	WebhookSecret string
	ListenAddr    string
	MetricsAddr   string

	CatalogPath string
	ViewsPath   string
	AssetsPath  string
	NewsURL     string
	AdminIDs    []int64

	SessionBackend string
	SessionPath    string
	SessionTTL     time.Duration
	IdleThreshold  time.Duration

	BroadcastInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
}

// Load resolves configuration. path may be empty, in which case only
// defaults, a gamebot.yaml in the working directory and the environment
// apply. A .env file is folded into the environment when present.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GAMEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("metrics_addr", ":2112")
	v.SetDefault("catalog_path", "catalog.yaml")
	v.SetDefault("views_path", "views.yaml")
	v.SetDefault("assets_path", "assets")
	v.SetDefault("session.backend", BackendMemory)
	v.SetDefault("session.path", ".gamebot/sessions")
	v.SetDefault("session.ttl", time.Duration(0))
	v.SetDefault("session.idle_threshold", 30*time.Minute)
	v.SetDefault("broadcast_interval", 30*time.Second)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("gamebot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Token:             v.GetString("token"),
		WebhookSecret:     v.GetString("webhook_secret"),
		ListenAddr:        v.GetString("listen_addr"),
		MetricsAddr:       v.GetString("metrics_addr"),
		CatalogPath:       v.GetString("catalog_path"),
		ViewsPath:         v.GetString("views_path"),
		AssetsPath:        v.GetString("assets_path"),
		NewsURL:           v.GetString("news_url"),
		SessionBackend:    v.GetString("session.backend"),
		SessionPath:       v.GetString("session.path"),
		SessionTTL:        v.GetDuration("session.ttl"),
		IdleThreshold:     v.GetDuration("session.idle_threshold"),
		BroadcastInterval: v.GetDuration("broadcast_interval"),
		RedisAddr:         v.GetString("redis.addr"),
		RedisPassword:     v.GetString("redis.password"),
		RedisDB:           v.GetInt("redis.db"),
		LogLevel:          v.GetString("log_level"),
	}
	for _, id := range v.GetIntSlice("admin_ids") {
		cfg.AdminIDs = append(cfg.AdminIDs, int64(id))
	}

	switch cfg.SessionBackend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
	return cfg, nil
}
