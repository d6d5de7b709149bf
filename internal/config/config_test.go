package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load on missing file returned error: %v", err)
	}

	if cfg != Default() {
		t.Errorf("Load on missing file = %+v, want defaults", cfg)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path returned error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.IntervalMs != 3000 {
		t.Errorf("defaults = %+v, want addr :8080 and interval 3000", cfg)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	content := []byte("addr: \":9090\"\ninterval_ms: 5000\nmotion_gate: true\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.IntervalMs != 5000 {
		t.Errorf("interval_ms = %d, want 5000", cfg.IntervalMs)
	}
	if !cfg.MotionGate {
		t.Error("motion_gate should be true")
	}

	// Keys absent from the file keep their defaults.
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q, want default", cfg.Model)
	}
	if cfg.JPEGQuality != 80 {
		t.Errorf("jpeg_quality = %d, want default 80", cfg.JPEGQuality)
	}
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/mudra/custom.yaml")

	if got := DefaultPath(); got != "/etc/mudra/custom.yaml" {
		t.Errorf("DefaultPath = %q, want the %s value", got, EnvConfigPath)
	}
}

func TestDefaultPath_HomeFallback(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	got := DefaultPath()
	if got == "" {
		t.Skip("home directory not available")
	}
	if filepath.Base(got) != "mudra.yaml" {
		t.Errorf("DefaultPath = %q, want a path ending in mudra.yaml", got)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad yaml", content: "addr: [unclosed"},
		{name: "zero interval", content: "interval_ms: 0"},
		{name: "negative interval", content: "interval_ms: -100"},
		{name: "quality too high", content: "jpeg_quality: 150"},
		{name: "empty addr", content: "addr: \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mudra.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			if _, err := Load(path); err == nil {
				t.Error("Load should reject the invalid config")
			}
		})
	}
}
