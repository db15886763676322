package logger

import (
	"errors"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNew_InvalidLevelFallsBack(t *testing.T) {
	cfg := &Config{Level: "nonsense", Format: "json", Output: "stdout"}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "debug", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "info", Format: "console", Output: "stderr"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields(FieldOperation, "login", FieldUserID, "42")
	if m[FieldOperation] != "login" {
		t.Errorf("expected operation=login, got %v", m[FieldOperation])
	}
	if m[FieldUserID] != "42" {
		t.Errorf("expected user_id=42, got %v", m[FieldUserID])
	}
}

func TestFields_OddArgsIgnored(t *testing.T) {
	m := Fields(FieldOperation, "login", "dangling")
	if len(m) != 1 {
		t.Errorf("expected 1 field, got %d", len(m))
	}
}

func TestErrorFields(t *testing.T) {
	m := ErrorFields("keys.load", errors.New("boom"))
	if m[FieldOperation] != "keys.load" {
		t.Errorf("expected operation=keys.load, got %v", m[FieldOperation])
	}
	if m[FieldError] != "boom" {
		t.Errorf("expected error=boom, got %v", m[FieldError])
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("http.request", 2500*time.Millisecond)
	if m[FieldOperation] != "http.request" {
		t.Errorf("expected operation=http.request, got %v", m[FieldOperation])
	}
	if m[FieldDuration] != int64(2500) {
		t.Errorf("expected duration_ms=2500, got %v", m[FieldDuration])
	}
}

func TestWithComponent(t *testing.T) {
	l := Nop().WithComponent("cache")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}
