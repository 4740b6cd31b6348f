package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const configFile = "config.toml"

// AppConfig is the application configuration, loaded from config.toml with
// defaults for anything unset. The OpenAI API key is deliberately not part
// of the file; it comes from the environment (or a .env file).
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	OpenAI OpenAIConfig `toml:"openai"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// OpenAIConfig configures the intent classifier.
type OpenAIConfig struct {
	Model string `toml:"model"`
}

// DefaultConfig returns the configuration used when no config.toml exists.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8090,
			DevMode: false,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o",
		},
	}
}

// LoadConfig reads config.toml from the working directory, falling back to
// defaults when the file is absent. A present-but-invalid file is an error.
// It also loads a .env file, if any, so OPENAI_API_KEY can live there.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", configFile, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = DefaultConfig().Server.Port
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = DefaultConfig().OpenAI.Model
	}

	return cfg, nil
}

// APIKey returns the OpenAI API key from the environment.
func APIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
