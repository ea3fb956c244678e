package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("WMS_PORT")
	os.Unsetenv("WMS_CACHE_TTL_HOURS")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Session.CacheTTLHours != 96 {
		t.Fatalf("expected default cache ttl 96h, got %d", cfg.Session.CacheTTLHours)
	}
	if cfg.Batch.MaxConcurrentPublishers != 4 {
		t.Fatalf("expected default concurrency 4, got %d", cfg.Batch.MaxConcurrentPublishers)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	os.Setenv("WMS_PORT", "9090")
	defer os.Unsetenv("WMS_PORT")

	cfg := Load()
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected overridden port 9090, got %d", cfg.Server.Port)
	}
}
