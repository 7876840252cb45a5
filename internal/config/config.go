// Package config loads settings shared by the upload client and the development server.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultPath is the config file used when none is given.
const DefaultPath = "./config.yaml"

// Config holds the application configuration.
//
// Values are applied in order: defaults, YAML file, .env file, environment.
type Config struct {
	Server struct {
		Host string `env:"ROUTEUPLOAD_HOST" yaml:"host"`
		Port string `env:"ROUTEUPLOAD_PORT" yaml:"port"`
		// Directory served under /static/ (the wasm build lives here).
		StaticDir string `env:"ROUTEUPLOAD_STATIC_DIR" yaml:"staticDir"`
	} `yaml:"server"`

	Client struct {
		BaseURL string `env:"ROUTEUPLOAD_BASE_URL" yaml:"baseUrl"`
		// Zero means uploads never time out.
		Timeout time.Duration `env:"ROUTEUPLOAD_TIMEOUT" yaml:"timeout"`
	} `yaml:"client"`

	Upload struct {
		MaxFileSize int64 `env:"ROUTEUPLOAD_MAX_FILE_SIZE" yaml:"maxFileSize"`
		MaxRows     int   `env:"ROUTEUPLOAD_MAX_ROWS" yaml:"maxRows"`
	} `yaml:"upload"`

	Log struct {
		Level  string `env:"ROUTEUPLOAD_LOG_LEVEL" yaml:"level"`
		Format string `env:"ROUTEUPLOAD_LOG_FORMAT" yaml:"format"`
	} `yaml:"log"`
}

// Load builds a Config from configPath and dotEnvPath. Either file may be missing.
func Load(configPath, dotEnvPath string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if err := cfg.readYAML(configPath); err != nil {
		return nil, fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(dotEnvPath); err != nil {
		return nil, fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}

	return cfg, nil
}

func (cfg *Config) readYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- only loading a config file
	if os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("No YAML configuration file found, skipping")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("Loaded configuration file")

	return nil
}

// useDotEnv loads variables from path into the environment without
// overriding ones that are already set.
func useDotEnv(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("Loaded .env file")

	return nil
}
