package config

import (
	"testing"
	"time"
)

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nonexistent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3001 {
		t.Errorf("Port = %d, want default 3001", cfg.Port)
	}
	if cfg.UploadDir != "./uploads" {
		t.Errorf("UploadDir = %q", cfg.UploadDir)
	}
	if cfg.MsgInterval != 10*time.Second {
		t.Errorf("MsgInterval = %v, want 10s", cfg.MsgInterval)
	}
	if cfg.MsgLimit != 20 {
		t.Errorf("MsgLimit = %d, want 20", cfg.MsgLimit)
	}
}
