package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

var (
	errInvalidPort        = errors.New("server.port must be a number between 1 and 65535")
	errInvalidBaseURL     = errors.New("client.baseUrl must be an absolute http(s) URL")
	errNegativeTimeout    = errors.New("client.timeout cannot be negative")
	errInvalidMaxFileSize = errors.New("upload.maxFileSize must be positive")
	errInvalidMaxRows     = errors.New("upload.maxRows must be positive")
	errInvalidLogFormat   = errors.New(`log.format must be "console" or "json"`)
)

func (cfg *Config) validate() error {
	port, err := strconv.Atoi(cfg.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w, got %q", errInvalidPort, cfg.Server.Port)
	}

	base, err := url.Parse(cfg.Client.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return fmt.Errorf("%w, got %q", errInvalidBaseURL, cfg.Client.BaseURL)
	}

	if cfg.Client.Timeout < 0 {
		return errNegativeTimeout
	}

	if cfg.Upload.MaxFileSize <= 0 {
		return errInvalidMaxFileSize
	}

	if cfg.Upload.MaxRows <= 0 {
		return errInvalidMaxRows
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", cfg.Log.Level, err)
	}

	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return fmt.Errorf("%w, got %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}
