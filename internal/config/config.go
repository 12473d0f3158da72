// Package config provides a unified configuration system for the traversal kernel.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete kernel configuration.
type Config struct {
	Kernel  KernelConfig  `yaml:"kernel" json:"kernel"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	Features map[string]bool `yaml:"features" json:"features"`

	Version string `yaml:"version" json:"version"`
	Profile string `yaml:"profile" json:"profile"`
}

// KernelConfig contains settings for the traversal kernel itself.
type KernelConfig struct {
	// StrictMode promotes misuse warnings (stack underflow, zero-refcount
	// apply targets) to panics. Intended for test and debug builds.
	StrictMode bool `yaml:"strict_mode" json:"strict_mode" env:"SGCORE_STRICT_MODE" default:"false"`

	// MaxPathDepth bounds Path.Append; 0 means unbounded.
	MaxPathDepth int `yaml:"max_path_depth" json:"max_path_depth" default:"0"`

	// WarnOnUnknownNodeType controls whether dispatch falls back silently
	// to the null action or emits a TraversalWarning.
	WarnOnUnknownNodeType bool `yaml:"warn_on_unknown_node_type" json:"warn_on_unknown_node_type" default:"true"`
}

// CacheConfig contains sizing settings for the internal/cache memo cache
// behind pkg/sgactions.LeafCount: DispatchTableSize sizes its L1 tier and
// ElementCacheSize its L2 tier.
type CacheConfig struct {
	DispatchTableSize int           `yaml:"dispatch_table_size" json:"dispatch_table_size" default:"256"`
	ElementCacheSize  int           `yaml:"element_cache_size" json:"element_cache_size" default:"1024"`
	TTL               time.Duration `yaml:"ttl" json:"ttl" default:"5m"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level" default:"info" env:"SGCORE_LOG_LEVEL"`
	EnableColor bool   `yaml:"enable_color" json:"enable_color" default:"true"`
}

// Manager manages configuration loading, validation, and hot-reloading.
type Manager struct {
	config      *Config
	configPath  string
	mu          sync.RWMutex
	changeHooks []func(*Config)
	stopWatcher chan struct{}
	watcherDone chan struct{}
}

// NewManager creates a new configuration manager holding DefaultConfig.
func NewManager() *Manager {
	return &Manager{
		config:      DefaultConfig(),
		changeHooks: make([]func(*Config), 0),
		stopWatcher: make(chan struct{}),
		watcherDone: make(chan struct{}),
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Kernel: KernelConfig{
			StrictMode:            false,
			MaxPathDepth:          0,
			WarnOnUnknownNodeType: true,
		},
		Cache: CacheConfig{
			DispatchTableSize: 256,
			ElementCacheSize:  1024,
			TTL:               5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:       "info",
			EnableColor: true,
		},
		Features: make(map[string]bool),
		Version:  "1.0",
		Profile:  "default",
	}
}

// Load loads configuration from a YAML file, applies environment overrides,
// validates it, and swaps it in atomically.
func (m *Manager) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expandedPath, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if err := NewLoader().LoadFromEnvironment(cfg); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	m.config = cfg
	m.configPath = expandedPath
	m.notifyChangeHooks(cfg)

	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfgCopy := *m.config
	return &cfgCopy
}

// Update applies updateFunc to a copy of the configuration, validates it,
// and swaps it in if valid.
func (m *Manager) Update(updateFunc func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfgCopy := *m.config
	updateFunc(&cfgCopy)

	if err := Validate(&cfgCopy); err != nil {
		return fmt.Errorf("validating updated configuration: %w", err)
	}

	m.config = &cfgCopy
	m.notifyChangeHooks(&cfgCopy)

	return nil
}

// OnChange registers a callback invoked whenever the configuration changes.
func (m *Manager) OnChange(hook func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changeHooks = append(m.changeHooks, hook)
}

func (m *Manager) notifyChangeHooks(config *Config) {
	for _, hook := range m.changeHooks {
		go hook(config)
	}
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}

	return os.ExpandEnv(path), nil
}
