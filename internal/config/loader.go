package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from config.yaml, the environment, and an
// optional .env file, in increasing order of precedence for real env vars.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/freshconcept/")

	v.SetEnvPrefix("FRESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Missing config file is fine: envs and defaults carry the load.
	}

	if err := loadDotEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", "0.0.0.0:8080")
	v.SetDefault("http.shutdown_timeout", "15s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.environment", "production")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/freshconcept.db")

	v.SetDefault("auth.signing_key", "change-me")
	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("auth.refresh_ttl", "720h")
	v.SetDefault("auth.issuer", "freshconcept")
	v.SetDefault("auth.audience", "freshconcept-portal")
	v.SetDefault("auth.leeway", "30s")
	v.SetDefault("auth.bcrypt_cost", 12)

	v.SetDefault("cache.default_ttl", "5m")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "freshconcept")

	v.SetDefault("webhooks.enabled", true)
	v.SetDefault("webhooks.timeout", "10s")
	v.SetDefault("webhooks.max_retries", 4)

	v.SetDefault("jobs.order_auto_confirm", "@every 1m")
	v.SetDefault("jobs.webhook_dispatch", "@every 30s")
	v.SetDefault("jobs.token_cleanup", "@every 1h")
	v.SetDefault("jobs.login_log_cleanup", "@daily")

	v.SetDefault("i18n.default_locale", "en-US")
}

func loadDotEnv(v *viper.Viper) error {
	candidates := []string{".", "..", "../.."}
	for _, path := range candidates {
		file := filepath.Clean(filepath.Join(path, ".env"))
		if _, err := os.Stat(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("stat .env: %w", err)
		}

		envViper := viper.New()
		envViper.SetConfigFile(file)
		envViper.SetConfigType("env")
		if err := envViper.ReadInConfig(); err != nil {
			return fmt.Errorf("read .env: %w", err)
		}
		bindDotEnv(v, envViper)
	}
	return nil
}

// bindDotEnv maps flat .env keys onto the hierarchical structure. Real env
// vars still win because AutomaticEnv resolves at Get time.
func bindDotEnv(target *viper.Viper, source *viper.Viper) {
	mappings := map[string]string{
		"HTTP_ADDR":        "http.addr",
		"SHUTDOWN_TIMEOUT": "http.shutdown_timeout",
		"LOG_LEVEL":        "log.level",
		"LOG_FORMAT":       "log.format",
		"LOG_ADD_SOURCE":   "log.add_source",
		"APP_ENV":          "log.environment",
		"DB_PATH":          "database.path",
		"AUTH_SIGNING_KEY": "auth.signing_key",
		"AUTH_TOKEN_TTL":   "auth.token_ttl",
		"AUTH_REFRESH_TTL": "auth.refresh_ttl",
		"AUTH_ISSUER":      "auth.issuer",
		"AUTH_AUDIENCE":    "auth.audience",
		"AUTH_BCRYPT_COST": "auth.bcrypt_cost",
		"WEBHOOKS_ENABLED": "webhooks.enabled",
		"DEFAULT_LOCALE":   "i18n.default_locale",
	}

	for flatKey, nestedKey := range mappings {
		if val := source.GetString(flatKey); val != "" {
			target.Set(nestedKey, val)
		}
	}
}
