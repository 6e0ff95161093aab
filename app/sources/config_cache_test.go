package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RSAK56/NewsStream/app/news"
)

func writeConfigFile(t *testing.T, dir, key, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, key+".yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestConfigCacheDefaults(t *testing.T) {
	cc := NewConfigCache(t.TempDir())

	if err := cc.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if cc.GetConfigCount() != 0 {
		t.Errorf("Expected no loaded overrides, got %d", cc.GetConfigCount())
	}

	config := cc.GetConfig(news.SourceGuardian)
	if !config.Enabled {
		t.Error("Expected default config to be enabled")
	}
	if config.Endpoint != "https://content.guardianapis.com/search" {
		t.Errorf("Unexpected default endpoint: %s", config.Endpoint)
	}
	if config.Timeout != 15 {
		t.Errorf("Expected default timeout 15, got %d", config.Timeout)
	}
}

func TestConfigCacheMissingDirectory(t *testing.T) {
	cc := NewConfigCache("/nonexistent/sources.d")

	if err := cc.Run(); err != nil {
		t.Errorf("Expected missing directory to be tolerated, got %v", err)
	}
}

func TestConfigCacheOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, news.SourceNewsAPI, `
enabled: false
timeout: 30
categories:
  sports: "sport"
`)

	cc := NewConfigCache(dir)
	if err := cc.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if cc.GetConfigCount() != 1 {
		t.Errorf("Expected 1 loaded override, got %d", cc.GetConfigCount())
	}

	config := cc.GetConfig(news.SourceNewsAPI)
	if config.Enabled {
		t.Error("Expected override to disable the provider")
	}
	if config.Timeout != 30 {
		t.Errorf("Expected timeout 30, got %d", config.Timeout)
	}
	// Absent fields keep their defaults
	if config.Endpoint != "https://newsapi.org/v2/top-headlines" {
		t.Errorf("Expected default endpoint to survive the override, got %s", config.Endpoint)
	}
	if config.Categories["sports"] != "sport" {
		t.Errorf("Expected category mapping from override, got %v", config.Categories)
	}
}

func TestConfigCacheRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "bloomberg", "enabled: true\n")

	cc := NewConfigCache(dir)
	if err := cc.Run(); err == nil {
		t.Error("Expected error for unknown source key")
	}
}

func TestConfigCacheRejectsInvalidCategory(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, news.SourceGuardian, `
categories:
  opinion: "commentisfree"
`)

	cc := NewConfigCache(dir)
	if err := cc.Run(); err == nil {
		t.Error("Expected error for non-canonical category in mapping")
	}
}

func TestConfigCacheRejectsNegativeTimeout(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, news.SourceNYTimes, "timeout: -5\n")

	cc := NewConfigCache(dir)
	if err := cc.Run(); err == nil {
		t.Error("Expected error for negative timeout")
	}
}
