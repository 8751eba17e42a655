package adapter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.UI.SearchDebounce != 300*time.Millisecond {
		t.Errorf("debounce = %s, want 300ms", cfg.UI.SearchDebounce)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Server.PageSize != 30 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  base_url: http://catalog.local\n  page_size: 50\nstore:\n  driver: bolt\nui:\n  search_debounce: 150ms\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHELF_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.BaseURL != "http://catalog.local" || cfg.Server.PageSize != 50 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Store.Driver != "bolt" {
		t.Errorf("driver = %q, want bolt", cfg.Store.Driver)
	}
	if cfg.UI.SearchDebounce != 150*time.Millisecond {
		t.Errorf("debounce = %s, want 150ms", cfg.UI.SearchDebounce)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want env override", cfg.Logging.Level)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  driver: redis\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://example.test"
	cfg.UI.SearchDebounce = 500 * time.Millisecond

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Server.BaseURL != cfg.Server.BaseURL || loaded.UI.SearchDebounce != cfg.UI.SearchDebounce {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("dropped")
	logger.Warn("kept", "id", 7)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "kept" {
		t.Fatalf("unexpected record %v", line)
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "shelf.db"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Store.Path = dir
	if err := ClearCache(cfg); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("cache dir still present: %v", err)
	}
	// A second clear of a missing dir is not an error
	if err := ClearCache(cfg); err != nil {
		t.Fatalf("ClearCache on missing dir: %v", err)
	}
}
