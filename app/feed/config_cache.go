package feed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ConfigCache holds per-source override files loaded from the sources
// directory. Sources without a file run with defaults; the file only needs
// to exist to disable a source or tighten its settings.
type ConfigCache struct {
	sourcesDir string
	cache      map[string]*Config
	mu         sync.RWMutex
}

func NewConfigCache(sourcesDir string) *ConfigCache {
	return &ConfigCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		sourceName := fileName[:len(fileName)-4] // Remove .yml extension

		config, err := cc.LoadConfig(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", sourceName, "enabled", config.Settings.Enabled, "max_items", config.Settings.MaxItems)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(sourceName string) (*Config, error) {
	configFile := cc.getConfigFilePath(sourceName)
	config, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	config.Name = sourceName

	if err := cc.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[config.Name] = config

	return config, nil
}

// GetConfig returns the override file for sourceName, or defaults when no
// file exists. A missing file is the normal case, not an error.
func (cc *ConfigCache) GetConfig(sourceName string) *Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	if config, ok := cc.cache[sourceName]; ok {
		return config
	}
	return DefaultConfig(sourceName)
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func DefaultConfig(sourceName string) *Config {
	return &Config{
		Name: sourceName,
		Settings: ConfigSettings{
			Enabled:  true,
			MaxItems: 100,
			Timeout:  30,
		},
	}
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	config := Config{
		Settings: ConfigSettings{Enabled: true},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.Settings.MaxItems == 0 {
		config.Settings.MaxItems = 100
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30
	}

	return &config, nil
}

func (cc *ConfigCache) validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if config.Name == "" {
		return fmt.Errorf("source name is required")
	}

	if config.Settings.MaxItems < 0 {
		return fmt.Errorf("max items must be non-negative")
	}
	if config.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	validFields := map[string]bool{
		"title":   true,
		"link":    true,
		"content": true,
	}

	for i, filter := range config.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(sourceName string) string {
	return filepath.Join(cc.sourcesDir, sourceName+".yml")
}
