package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	AppName     = "barangay360"
	EnvFileName = "config.env"
)

// Config holds everything the tools need from the environment. The base URL
// is deliberately the only place a backend host is named; nothing else in the
// module hardcodes one.
type Config struct {
	APIBaseURL   string        `env:"BARANGAY360_API_URL" envDefault:"http://localhost:8080" validate:"required,url"`
	DBPath       string        `env:"BARANGAY360_DB_PATH" envDefault:"barangay360.db" validate:"required"`
	TokenKey     string        `env:"BARANGAY360_TOKEN_KEY" validate:"required"`
	PollInterval time.Duration `env:"BARANGAY360_POLL_INTERVAL" envDefault:"10m"`
	Debug        bool          `env:"BARANGAY360_DEBUG" envDefault:"false"`
}

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// Load reads the env file, parses the environment and validates the result.
func Load() (*Config, error) {
	LoadEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
