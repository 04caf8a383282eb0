package config

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
	if cfg.Geocoder.Provider != "static" {
		t.Fatalf("unexpected provider: %q", cfg.Geocoder.Provider)
	}
	if cfg.Geocoder.CacheTTL != 10*time.Minute {
		t.Fatalf("unexpected cache ttl: %v", cfg.Geocoder.CacheTTL)
	}
	if diff := cmp.Diff([]string{"*"}, cfg.Server.AllowedOrigins); diff != "" {
		t.Fatalf("origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.GetServerAddr() != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.GetServerAddr())
	}
}

func TestLoadFrom_File(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join("testdata", "google"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.BasePath != "/maps" {
		t.Fatalf("unexpected server config: %#v", cfg.Server)
	}
	if cfg.Geocoder.APIKey != "test-key" || cfg.Geocoder.Language != "fr" {
		t.Fatalf("unexpected geocoder config: %#v", cfg.Geocoder)
	}
	if cfg.Geocoder.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected cache ttl: %v", cfg.Geocoder.CacheTTL)
	}
	if diff := cmp.Diff([]string{"https://example.com"}, cfg.Server.AllowedOrigins); diff != "" {
		t.Fatalf("origins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("MAPLOCATION_SERVER_PORT", "7000")
	t.Setenv("MAPLOCATION_GEOCODER_PROVIDER", "nominatim")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Fatalf("expected env port, got %d", cfg.Server.Port)
	}
	if cfg.Geocoder.Provider != "nominatim" {
		t.Fatalf("expected env provider, got %q", cfg.Geocoder.Provider)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	_, err := LoadFrom(filepath.Join("testdata", "bad"))
	if err == nil || !strings.Contains(err.Error(), `unknown geocoder provider "bing"`) {
		t.Fatalf("expected provider error, got %v", err)
	}

	t.Setenv("MAPLOCATION_GEOCODER_PROVIDER", "google")
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatalf("expected missing api key error")
	}
}

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	logger := cfg.NewLoggerTo(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if entry["msg"] != "shown" || entry["key"] != "value" {
		t.Fatalf("unexpected entry: %#v", entry)
	}

	buf.Reset()
	(&Config{}).NewLoggerTo(&buf).Info("text", "n", 1)
	if !strings.Contains(buf.String(), "msg=text") {
		t.Fatalf("expected text handler output, got %q", buf.String())
	}
}
