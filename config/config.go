package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		App     `json:"app"     toml:"app"`
		HTTP    `json:"http"    toml:"http"`
		DB      `json:"db"      toml:"db"`
		Fraud   `json:"fraud"   toml:"fraud"`
		Workers `json:"workers" toml:"workers"`
		Log     `json:"logger"  toml:"logger"`
	}

	App struct {
		Name        string `json:"name"        toml:"name"        env:"APP_NAME"`
		Environment string `json:"environment" toml:"environment" env:"ENV_NAME" env-default:"dev"`
		Debug       bool   `json:"debug"       toml:"debug"       env:"DEBUG"    env-default:"false"`
	}

	HTTP struct {
		Port string `json:"port" toml:"port" env:"HTTP_PORT" env-default:"8080"`
	}

	DB struct {
		DatabaseURL       string `json:"database_url"        toml:"database_url"        env:"DATABASE_URL"`
		PoolMax           int32  `json:"pool_max"            toml:"pool_max"            env:"PG_POOL_MAX" env-default:"10"`
		ConnectTimeout    int    `json:"connect_timeout"     toml:"connect_timeout"     env:"PG_POOL_CONN_TIMEOUT" env-default:"5"`
		HealthCheckPeriod int    `json:"health_check_period" toml:"health_check_period" env:"PG_POOL_HEALTHCHECK" env-default:"1"`
	}

	Fraud struct {
		AdvisorAPIKey string `json:"advisor_api_key" toml:"advisor_api_key" env:"FRAUD_ADVISOR_API_KEY"`
		AdvisorAPIURL string `json:"advisor_api_url" toml:"advisor_api_url" env:"FRAUD_ADVISOR_API_URL"`
	}

	Workers struct {
		RetentionDays          int `json:"retention_days"           toml:"retention_days"           env:"RECORD_RETENTION_DAYS" env-default:"90"`
		RetentionIntervalHours int `json:"retention_interval_hours" toml:"retention_interval_hours" env:"RECORD_RETENTION_INTERVAL_HOURS" env-default:"24"`
	}

	Log struct {
		Level slog.Level `json:"level" toml:"level" env:"LOG_LEVEL"`
	}
)

// RedactedURL returns the database URL with any password masked. Startup
// logging must never echo credentials.
func (d DB) RedactedURL() string {
	u, err := url.Parse(d.DatabaseURL)
	if err != nil {
		return ""
	}
	return u.Redacted()
}

// LoadConfig reads config.toml (or config.json) next to this file, then
// lets environment variables override. A missing config file is fine as
// long as the environment fills in what has no default.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	_, b, _, _ := runtime.Caller(0)
	basePath := filepath.Dir(b)

	configTomlPath := filepath.Join(basePath, "config.toml")
	if err := cleanenv.ReadConfig(configTomlPath, cfg); err != nil {
		configJsonPath := filepath.Join(basePath, "config.json")
		if err = cleanenv.ReadConfig(configJsonPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("env read error: %w", err)
	}

	return cfg, nil
}
