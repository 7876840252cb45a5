package config

const (
	defaultMaxFileSize = 10 << 20 // 10MB
	defaultMaxRows     = 10000
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8080"
	cfg.Server.StaticDir = "static"

	cfg.Client.BaseURL = "http://localhost:8080"
	cfg.Client.Timeout = 0

	cfg.Upload.MaxFileSize = defaultMaxFileSize
	cfg.Upload.MaxRows = defaultMaxRows

	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
}
