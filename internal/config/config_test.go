package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WIKITREE_CONFIG", "")
	t.Setenv("PORT", "")
	t.Setenv("CONVERT_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.ConvertTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.ConvertTimeout)
	}
	if cfg.RefTag != "ref" || cfg.MaxDepth != 512 {
		t.Errorf("expected ref/512, got %q/%d", cfg.RefTag, cfg.MaxDepth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikitree.yaml")
	body := "port: \"9000\"\nworker_count: 2\nref_tag: note\nconvert_timeout: 5s\njob_ttl: 10m\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WIKITREE_CONFIG", path)
	t.Setenv("PORT", "")
	t.Setenv("WORKER_COUNT", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port from file, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("expected env to override file, got %d", cfg.WorkerCount)
	}
	if cfg.RefTag != "note" {
		t.Errorf("expected ref tag note, got %q", cfg.RefTag)
	}
	if cfg.ConvertTimeout != 5*time.Second || cfg.JobTTL != 10*time.Minute {
		t.Errorf("expected durations from file, got %v %v", cfg.ConvertTimeout, cfg.JobTTL)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("expected unset keys to keep defaults, got %d", cfg.MaxQueueSize)
	}
}

func TestLoad_UnknownFileKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("no_such_key: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WIKITREE_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("convert_timeout: soon\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WIKITREE_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no workers", func(c *Config) { c.WorkerCount = 0 }, false},
		{"zero timeout", func(c *Config) { c.ConvertTimeout = 0 }, false},
		{"empty ref tag", func(c *Config) { c.RefTag = "" }, false},
		{"overlap too large", func(c *Config) { c.OutlineChunkOverlap = c.OutlineChunkSize }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"store key without url", func(c *Config) { c.StoreAPIKey = "k" }, false},
		{"store key with url", func(c *Config) { c.StoreAPIKey = "k"; c.StoreURL = "http://store" }, true},
	}
	for _, tt := range tests {
		cfg := Defaults()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: expected valid, got %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
