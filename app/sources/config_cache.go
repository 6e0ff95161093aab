package sources

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/RSAK56/NewsStream/app/news"
)

// ProviderConfig carries per-provider settings. Everything has a
// built-in default; an optional <sources-dir>/<key>.yml overrides it.
type ProviderConfig struct {
	Key             string            // Source key, derived from filename
	Enabled         bool              `yaml:"enabled"`
	Endpoint        string            `yaml:"endpoint"`
	DefaultCategory string            `yaml:"default_category"`
	Timeout         int               `yaml:"timeout"` // seconds
	Categories      map[string]string `yaml:"categories"`
}

type ConfigCache struct {
	sourcesDir string
	cache      map[string]*ProviderConfig
	mu         sync.RWMutex
}

func NewConfigCache(sourcesDir string) *ConfigCache {
	return &ConfigCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*ProviderConfig),
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
		key := fileName[:len(fileName)-4] // Remove .yml extension

		config, err := cc.LoadConfig(key)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Provider configuration loaded", "source", key, "enabled", config.Enabled, "endpoint", config.Endpoint)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(key string) (*ProviderConfig, error) {
	configFile := cc.getConfigFilePath(key)
	config, err := cc.parseConfig(key, configFile)
	if err != nil {
		return nil, err
	}

	if err := cc.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[config.Key] = config

	return config, nil
}

// GetConfig returns the provider's configuration, falling back to the
// built-in defaults when no file was loaded for it.
func (cc *ConfigCache) GetConfig(key string) *ProviderConfig {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	if config, ok := cc.cache[key]; ok {
		return config
	}
	return defaultProviderConfig(key)
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(key, configFile string) (*ProviderConfig, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Unmarshal over the defaults so absent fields keep them
	config := defaultProviderConfig(key)
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	config.Key = key

	return config, nil
}

func (cc *ConfigCache) validateConfig(config *ProviderConfig) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if !slices.Contains(news.SourceKeys, config.Key) {
		return fmt.Errorf("unknown source key: %s", config.Key)
	}

	if config.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	for canonical := range config.Categories {
		if !slices.Contains(news.Categories, canonical) {
			return fmt.Errorf("invalid canonical category in mapping: %s", canonical)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(key string) string {
	return filepath.Join(cc.sourcesDir, key+".yml")
}

func defaultProviderConfig(key string) *ProviderConfig {
	config := &ProviderConfig{
		Key:     key,
		Enabled: true,
		Timeout: 15,
	}

	switch key {
	case news.SourceNewsAPI:
		config.Endpoint = "https://newsapi.org/v2/top-headlines"
		config.DefaultCategory = news.DefaultCategory
	case news.SourceGuardian:
		config.Endpoint = "https://content.guardianapis.com/search"
		config.DefaultCategory = guardianDefaultSection
	case news.SourceNYTimes:
		config.Endpoint = "https://api.nytimes.com/svc/topstories/v2"
		config.DefaultCategory = nytimesDefaultSection
	}

	return config
}
