package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("BRIDGE_TEST_STR", "value")
	if got := GetEnv("BRIDGE_TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("BRIDGE_TEST_UNSET", "x"); got != "x" {
		t.Errorf("GetEnv fallback = %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("BRIDGE_TEST_INT", "8303")
	t.Setenv("BRIDGE_TEST_BAD_INT", "port")
	if got := GetEnvInt("BRIDGE_TEST_INT", 1); got != 8303 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("BRIDGE_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("GetEnvInt invalid = %d, want fallback", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("BRIDGE_TEST_BOOL", "false")
	if GetEnvBool("BRIDGE_TEST_BOOL", true) {
		t.Error("GetEnvBool = true, want false")
	}
	if !GetEnvBool("BRIDGE_TEST_UNSET", true) {
		t.Error("GetEnvBool fallback = false")
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"250ms", 250 * time.Millisecond},
		{"0.5", 500 * time.Millisecond},
		{"2", 2 * time.Second},
		{"soon", time.Minute},
		{"-1", time.Minute},
	}
	for _, tt := range tests {
		t.Setenv("BRIDGE_TEST_DUR", tt.value)
		if got := GetEnvDuration("BRIDGE_TEST_DUR", time.Minute); got != tt.want {
			t.Errorf("GetEnvDuration(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("BRIDGE_TEST_FROM_FILE=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("BRIDGE_TEST_FROM_FILE") })

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := GetEnv("BRIDGE_TEST_FROM_FILE", ""); got != "loaded" {
		t.Errorf("expected value from file, got %q", got)
	}
	if err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing file")
	}
}
