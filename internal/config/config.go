package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"PORT"`
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Storage: DB_DSN (postgres) > SQLITE_PATH > in-memory.
	DBDSN      string `mapstructure:"DB_DSN"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	// Colaboradores externos. Vacío = modo degradado ("Offline").
	AdvisorURL    string `mapstructure:"ADVISOR_URL"`
	AdvisorAPIKey string `mapstructure:"ADVISOR_API_KEY"`
	RAGURL        string `mapstructure:"RAG_URL"`

	// Auth. Secret vacío = modo dev (header X-Debug-User-ID).
	AuthSecret   string `mapstructure:"AUTH_SECRET"`
	AuthUsername string `mapstructure:"AUTH_USERNAME"`
	AuthPassword string `mapstructure:"AUTH_PASSWORD"`
}

// Load lee config desde env (con .env opcional) y aplica defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("AUTH_USERNAME", "admin")
	v.SetDefault("AUTH_PASSWORD", "admin")

	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT",
		"DB_DSN", "SQLITE_PATH",
		"ADVISOR_URL", "ADVISOR_API_KEY", "RAG_URL",
		"AUTH_SECRET", "AUTH_USERNAME", "AUTH_PASSWORD",
	} {
		_ = v.BindEnv(key)
	}

	// .env es opcional: si no existe, seguimos con env + defaults.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
