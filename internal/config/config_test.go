package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8090" {
		t.Fatalf("port = %s, want 8090", cfg.Port)
	}
	if cfg.Env != "local" {
		t.Fatalf("env = %s, want local", cfg.Env)
	}
	if cfg.JWTAccessTTL != 15*time.Minute {
		t.Fatalf("access ttl = %s", cfg.JWTAccessTTL)
	}
	if cfg.WorkerBatchSize != 50 {
		t.Fatalf("batch size = %d", cfg.WorkerBatchSize)
	}
	if cfg.Addr() != ":8090" {
		t.Fatalf("addr = %s", cfg.Addr())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("OVERDUE_SWEEP_INTERVAL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.Env != "prod" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.OverdueSweepInterval != 30*time.Minute {
		t.Fatalf("sweep interval = %s", cfg.OverdueSweepInterval)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("WORKER_POLL_INTERVAL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("invalid duration should fail to parse")
	}
}
