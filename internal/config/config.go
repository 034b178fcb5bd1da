package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"crm-dashboard/pkg/utils"
)

// CRM holds everything needed to reach the upstream record store.
type CRM struct {
	BaseURL      string `mapstructure:"base_url"`
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// Redis holds result-cache connection settings.
type Redis struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	DefaultTTL time.Duration `mapstructure:"-"`
}

// Config is the full process configuration. Duration fields are parsed
// separately so a malformed value falls back to its default instead of
// failing startup.
type Config struct {
	HTTPAddr      string        `mapstructure:"http_addr"`
	DBPath        string        `mapstructure:"db_path"`
	RenewInterval time.Duration `mapstructure:"-"`
	CRM           CRM           `mapstructure:"crm"`
	Redis         Redis         `mapstructure:"redis"`
}

// Load reads configuration from environment variables, with an optional
// config.yaml next to the binary overriding nothing that the environment
// already set. Environment keys are upper snake case: CRM_BASE_URL,
// REDIS_HOST, and so on.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_path", "dashboard.db")
	v.SetDefault("renew_interval", "55m")
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.default_ttl", "30m")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnv(v, "http_addr", "HTTP_ADDR")
	bindEnv(v, "db_path", "DB_PATH")
	bindEnv(v, "renew_interval", "RENEW_INTERVAL")
	bindEnv(v, "crm.base_url", "CRM_BASE_URL")
	bindEnv(v, "crm.token_url", "CRM_TOKEN_URL")
	bindEnv(v, "crm.client_id", "CRM_CLIENT_ID")
	bindEnv(v, "crm.client_secret", "CRM_CLIENT_SECRET")
	bindEnv(v, "crm.refresh_token", "CRM_REFRESH_TOKEN")
	bindEnv(v, "crm.redirect_url", "CRM_REDIRECT_URL")
	bindEnv(v, "redis.host", "REDIS_HOST")
	bindEnv(v, "redis.port", "REDIS_PORT")
	bindEnv(v, "redis.default_ttl", "REDIS_TTL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.RenewInterval = utils.ParseDuration(v.GetString("renew_interval"), 55*time.Minute)
	cfg.Redis.DefaultTTL = utils.ParseDuration(v.GetString("redis.default_ttl"), 30*time.Minute)

	if cfg.CRM.BaseURL == "" {
		return nil, fmt.Errorf("CRM_BASE_URL is required")
	}
	return &cfg, nil
}

func bindEnv(v *viper.Viper, key, env string) {
	if val, ok := os.LookupEnv(env); ok {
		v.Set(key, val)
	}
}
