package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8086" {
		t.Errorf("Expected Port to be 8086, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Pipeline.Concurrency != 2 {
		t.Errorf("Expected Pipeline.Concurrency to be 2, got %d", cfg.Pipeline.Concurrency)
	}

	if cfg.Pipeline.MessageCap != 30 {
		t.Errorf("Expected Pipeline.MessageCap to be 30, got %d", cfg.Pipeline.MessageCap)
	}

	if len(cfg.Pipeline.Universe) == 0 {
		t.Error("Expected a non-empty default universe")
	}

	if cfg.Engine.Provider != "static" {
		t.Errorf("Expected Engine.Provider to be static, got %s", cfg.Engine.Provider)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("UNIVERSE", "aapl, msft ,tsla")
	os.Setenv("PIPELINE_CONCURRENCY", "5")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("UNIVERSE")
		os.Unsetenv("PIPELINE_CONCURRENCY")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Pipeline.Concurrency != 5 {
		t.Errorf("Expected Pipeline.Concurrency to be 5, got %d", cfg.Pipeline.Concurrency)
	}

	want := []string{"AAPL", "MSFT", "TSLA"}
	if len(cfg.Pipeline.Universe) != len(want) {
		t.Fatalf("Expected universe %v, got %v", want, cfg.Pipeline.Universe)
	}
	for i, ticker := range want {
		if cfg.Pipeline.Universe[i] != ticker {
			t.Errorf("Universe[%d] = %s, want %s", i, cfg.Pipeline.Universe[i], ticker)
		}
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid env", "ENV", "sandbox"},
		{"zero concurrency", "PIPELINE_CONCURRENCY", "0"},
		{"llm without key", "ENGINE_PROVIDER", "llm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}
