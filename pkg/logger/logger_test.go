package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"stockpilot/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewAndChaining(t *testing.T) {
	cfg := &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"}

	log := New(cfg)
	if log == nil {
		t.Fatal("New() returned nil")
	}

	// Chained loggers must be new instances, not mutations
	child := log.WithField("ticker", "AAPL")
	if child == log {
		t.Error("WithField should return a new logger")
	}

	multi := log.WithFields(map[string]interface{}{"a": 1, "b": "two"})
	if multi == nil {
		t.Fatal("WithFields returned nil")
	}

	// Should not panic
	child.Debug("debug message")
	multi.Infof("formatted %s", "message")
}
