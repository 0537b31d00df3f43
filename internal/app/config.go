package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ManifestPaths are HCL files or directories with parameter manifests.
	ManifestPaths []string
	// Location is navigated to at startup. Empty shows the default view.
	Location string
	// DefaultView overrides the default view chosen by the modules.
	DefaultView string

	LogFormat string
	LogLevel  string

	// HTTPPort serves /health and /location. 0 is disabled.
	HTTPPort int

	BridgeURL       string
	BridgeNamespace string
	BridgeInsecure  bool

	// Serve keeps the app running until its context is cancelled.
	Serve bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		LogFormat:       "text",
		LogLevel:        "info",
		BridgeNamespace: "/",
	}
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.HTTPPort < 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid http-port %d", cfg.HTTPPort)
	}
	if cfg.Serve && cfg.HTTPPort == 0 && cfg.BridgeURL == "" {
		return nil, errors.New("serve mode needs an http-port or a bridge-url")
	}
	if cfg.BridgeURL == "" && cfg.BridgeInsecure {
		return nil, errors.New("bridge-insecure is set but no bridge-url is given")
	}

	return &cfg, nil
}

// fileConfig is the TOML layout of a config file.
type fileConfig struct {
	Manifests       []string `toml:"manifests"`
	Location        string   `toml:"location"`
	DefaultView     string   `toml:"default_view"`
	LogFormat       string   `toml:"log_format"`
	LogLevel        string   `toml:"log_level"`
	HTTPPort        int      `toml:"http_port"`
	BridgeURL       string   `toml:"bridge_url"`
	BridgeNamespace string   `toml:"bridge_namespace"`
	BridgeInsecure  bool     `toml:"bridge_insecure"`
	Serve           bool     `toml:"serve"`
}

// LoadFile overlays the keys defined in the TOML file at path onto base.
// Keys the file does not mention keep their value from base.
func LoadFile(path string, base Config) (Config, error) {
	cfg := base

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown keys %v", path, undecoded)
	}

	if meta.IsDefined("manifests") {
		cfg.ManifestPaths = raw.Manifests
	}
	if meta.IsDefined("location") {
		cfg.Location = strings.TrimSpace(raw.Location)
	}
	if meta.IsDefined("default_view") {
		cfg.DefaultView = strings.TrimSpace(raw.DefaultView)
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = strings.TrimSpace(raw.LogFormat)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("http_port") {
		cfg.HTTPPort = raw.HTTPPort
	}
	if meta.IsDefined("bridge_url") {
		cfg.BridgeURL = strings.TrimSpace(raw.BridgeURL)
	}
	if meta.IsDefined("bridge_namespace") {
		cfg.BridgeNamespace = strings.TrimSpace(raw.BridgeNamespace)
	}
	if meta.IsDefined("bridge_insecure") {
		cfg.BridgeInsecure = raw.BridgeInsecure
	}
	if meta.IsDefined("serve") {
		cfg.Serve = raw.Serve
	}
	return cfg, nil
}
