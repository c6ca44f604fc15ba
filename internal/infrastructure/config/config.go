// Package config provides configuration management for zoomd with Viper
// integration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/tabzoom/zoomd/internal/domain/entity"
)

// Config represents the complete configuration for zoomd.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	HTTP     HTTPConfig     `mapstructure:"http" yaml:"http"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Zoom     ZoomConfig     `mapstructure:"zoom" yaml:"zoom"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// HTTPConfig holds the HTTP surface configuration.
type HTTPConfig struct {
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// BrowserConfig holds the DevTools connection configuration.
type BrowserConfig struct {
	CDPURL string `mapstructure:"cdp_url" yaml:"cdp_url"`
}

// ZoomConfig holds the reconciliation engine's tunables.
type ZoomConfig struct {
	// DebounceMs is the quiet period after a manual zoom change before
	// it is persisted.
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`

	// SuppressionWindowMs covers the round trip between a self-initiated
	// zoom write and its echoed change event.
	SuppressionWindowMs int `mapstructure:"suppression_window_ms" yaml:"suppression_window_ms"`

	// OffStateFallback selects what zoom applies when toggle mode is
	// enabled but off: "hundred" or "global".
	OffStateFallback string `mapstructure:"off_state_fallback" yaml:"off_state_fallback"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Debounce returns the debounce interval as a duration.
func (z ZoomConfig) Debounce() time.Duration {
	return time.Duration(z.DebounceMs) * time.Millisecond
}

// SuppressionWindow returns the suppression window as a duration.
func (z ZoomConfig) SuppressionWindow() time.Duration {
	return time.Duration(z.SuppressionWindowMs) * time.Millisecond
}

// Fallback returns the parsed off-state policy.
func (z ZoomConfig) Fallback() entity.OffStateFallback {
	f := entity.OffStateFallback(z.OffStateFallback)
	if !f.Valid() {
		return entity.FallbackHundred
	}
	return f
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	v.SetEnvPrefix("ZOOMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load reads the configuration, tolerating a missing config file.
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := m.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	m.config = &cfg
	return &cfg, nil
}

// Get returns the current configuration snapshot.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// OnChange registers a callback invoked after every successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "")
	v.SetDefault("http.listen_addr", "127.0.0.1:8917")
	v.SetDefault("browser.cdp_url", "ws://127.0.0.1:9222")
	v.SetDefault("zoom.debounce_ms", 1500)
	v.SetDefault("zoom.suppression_window_ms", 500)
	v.SetDefault("zoom.off_state_fallback", string(entity.FallbackHundred))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func validate(cfg *Config) error {
	if cfg.Zoom.DebounceMs <= 0 {
		return fmt.Errorf("zoom.debounce_ms must be positive, got %d", cfg.Zoom.DebounceMs)
	}
	if cfg.Zoom.SuppressionWindowMs <= 0 {
		return fmt.Errorf("zoom.suppression_window_ms must be positive, got %d", cfg.Zoom.SuppressionWindowMs)
	}
	if f := entity.OffStateFallback(cfg.Zoom.OffStateFallback); !f.Valid() {
		return fmt.Errorf("zoom.off_state_fallback must be %q or %q, got %q",
			entity.FallbackHundred, entity.FallbackGlobal, cfg.Zoom.OffStateFallback)
	}
	return nil
}

// GetConfigDir returns the XDG config directory for zoomd.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zoomd"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "zoomd"), nil
}

// GetDataDir returns the XDG data directory for zoomd.
func GetDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "zoomd"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "zoomd"), nil
}

// DatabasePath resolves the configured database path, defaulting into the
// data directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "zoomd.db"), nil
}
