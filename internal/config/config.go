package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultEnv          = "dev"
	defaultDBPath       = "./dev.db"
	defaultPort         = "8080"
	defaultProfitMargin = 0.40
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env         string
	DBPath      string
	Port        string
	CatalogPath string
	LogMode     string
	// ProfitMargin is applied to quote requests that do not carry their own.
	ProfitMargin float64
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// Load reads environment variables and returns a populated Config.
func Load() (Config, error) {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:          os.Getenv("APP_ENV"),
		DBPath:       os.Getenv("DB_PATH"),
		Port:         os.Getenv("PORT"),
		CatalogPath:  os.Getenv("CATALOG_PATH"),
		LogMode:      os.Getenv("LOG_MODE"),
		ProfitMargin: defaultProfitMargin,
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogMode == "" {
		cfg.LogMode = cfg.Env
	}

	if raw := strings.TrimSpace(os.Getenv("QUOTE_PROFIT_MARGIN")); raw != "" {
		margin, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse QUOTE_PROFIT_MARGIN: %w", err)
		}
		if margin < 0 || margin > 1 {
			return Config{}, fmt.Errorf("QUOTE_PROFIT_MARGIN must be between 0 and 1, got %v", margin)
		}
		cfg.ProfitMargin = margin
	}

	return cfg, nil
}
